// Package testsupport provides shared fixtures for package tests: temp-dir
// configs, learned-store setup, and a canned chat client.
package testsupport
