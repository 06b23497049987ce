// Package series repairs minute bar series by forward fill.
//
// Fill walks the expected minute marks and the observed samples with two cursors in a
// single pass. A minute with no covering sample gets a synthetic bar at the last known
// price; volume and open interest are zero.
package series
