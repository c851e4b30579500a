// Package version - Build-Version von smolchat
// Wird beim Release per -ldflags "-X github.com/smolchat/smolchat/version.Version=..." gesetzt
package version

var Version string = "0.0.0"
