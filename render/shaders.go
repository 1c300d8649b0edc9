package render

import _ "embed"

// Embedded WGSL sources for the four shape pipelines. Each is compiled to
// SPIR-V through internal/shader at pipeline build time.

//go:embed shaders/rect.wgsl
var rectShaderSource string

//go:embed shaders/rounded_rect.wgsl
var roundedRectShaderSource string

//go:embed shaders/circle.wgsl
var circleShaderSource string

//go:embed shaders/text.wgsl
var textShaderSource string
