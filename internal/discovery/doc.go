// Package discovery enumerates the directories a multi-directory hook
// action should run in, filtered by a marker filename (dirsWith) or a
// probe command (testDir).
package discovery
