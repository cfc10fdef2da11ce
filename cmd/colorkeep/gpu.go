//go:build !nogpu

package main

import "github.com/gogpu/colorkeep/gpu"

func wgslSource() (string, error) {
	return gpu.ShaderSource(), nil
}
