// Package trove carries module-wide metadata.
package trove

// Version is the current release version of the trove module.
const Version = "0.1.0"
