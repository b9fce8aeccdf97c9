// Package config provides configuration loading, merging, and validation
// facilities for the client and the development API.
//
// Configuration is assembled from multiple sources. A field is taken from the
// first source that sets it:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry points are [GetClientConfig] for the client runtime and
// [GetServerConfig] for the development API double.
package config
