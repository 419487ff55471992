// Package connectors holds clients for third-party services that help
// locate repositories. The only connector is github, the keyword search
// fallback used by the resolver.
package connectors
