// Package checks holds the individual health checks run by the integrity feature.
package checks
