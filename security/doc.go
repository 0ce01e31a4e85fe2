// Package security builds client TLS settings for the gateway's outbound
// connections to Redis and Kafka.
//
//	redis:
//	  tls:
//	    enabled: true
//	    ca_file: /etc/ssl/redis-ca.pem
//	    min_version: "1.3"
package security
