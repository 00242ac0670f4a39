//go:build opengl

package main

import _ "github.com/gogpu/shaderkit/backend/opengl"
