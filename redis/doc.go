// Package redis wraps go-redis with the project's configuration and
// logging conventions. The gateway uses it to cache authorization
// snapshots between gated requests:
//
//	client, err := redis.New(cfg.Redis, log)
//	store := redis.NewTypedStore[snapshot.Snapshot](client, "snapshot")
package redis
