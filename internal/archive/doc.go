// Package archive moves files such as the request journal aside under a
// timestamped name, so the next run starts fresh.
package archive
