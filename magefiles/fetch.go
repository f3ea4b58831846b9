//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Plan prints the lookup and output path of every node in ./*.md.
func Plan() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "plan")
}

// Fetch runs a full scrape over ./*.md.
func Fetch() error {
	mg.Deps(Build)
	return sh.RunV(binPath())
}
