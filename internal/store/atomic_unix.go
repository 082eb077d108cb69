//go:build !windows

package store

import "syscall"

const syscallEXDEV = syscall.EXDEV
