/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import "github.com/ssargent/fleetdb/pkg/di"

var container *di.Container

// SetContainer injects the dependency container used by every command
func SetContainer(c *di.Container) {
	container = c
}
