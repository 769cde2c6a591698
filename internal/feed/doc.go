// Package feed discovers recently published videos of a playlist through its
// public Atom feed.
//
// The feed is a bounded window of the newest items, so it is only useful for
// catching up; older days must already be in the dataset.
package feed
