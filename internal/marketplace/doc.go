// Package marketplace resolves a plugin's qualified or unqualified name
// to an on-disk root directory by probing marketplace roots in a fixed
// order (jutsu/, do/, hashi/, then a flat layout).
//
//	root, err := locator.Locate("lint", "")
package marketplace
