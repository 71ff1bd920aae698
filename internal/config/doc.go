// Package config holds session settings for the input engine.
//
// Settings are plain values passed at handler construction; nothing in this
// package is global. A TOML file provides the base configuration,
// MODALITY_* environment variables override individual values, and an
// optional file watcher re-loads the file on change.
package config
