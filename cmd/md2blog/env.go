package main

import (
	"io"
	"os"

	md2blog "github.com/alnah/go-md2blog"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// DiagramEngine replaces headless Chrome when set.
	DiagramEngine md2blog.DiagramEngine
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
	}
}
