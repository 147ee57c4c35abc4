// Package model defines the shared data types of the recognition
// pipeline: reference entries, match candidates, and recognition
// results.
package model
