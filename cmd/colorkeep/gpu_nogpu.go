//go:build nogpu

package main

import "errors"

func wgslSource() (string, error) {
	return "", errors.New("built without GPU support")
}
