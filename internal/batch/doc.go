// Package batch reads phrase files for batch translation.
package batch
