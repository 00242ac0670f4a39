package gpucore

// Device abstracts a GPU backend for shader, program, texture and
// framebuffer objects. Objects are addressed by opaque IDs and the Device
// keeps the mapping to its own resources.
//
// Devices are driven from a single render thread. Implementations may add
// locking but callers must not rely on it.
type Device interface {
	// Name returns the backend identifier (e.g., "native", "opengl").
	Name() string

	ShaderDevice
	ProgramDevice
	TextureDevice
	FramebufferDevice

	// Destroy releases every object still owned by the device.
	Destroy()
}

// ShaderDevice manages shader objects.
type ShaderDevice interface {
	// CreateShader creates an empty shader object for the given stage.
	CreateShader(stage ShaderStage) (ShaderID, error)

	// ShaderSource replaces the source of a shader object.
	ShaderSource(id ShaderID, lang SourceLanguage, source string) error

	// CompileShader compiles the current source and reports success.
	// Failure details are available through ShaderInfoLog.
	CompileShader(id ShaderID) bool

	// ShaderInfoLog returns the log of the last compilation.
	ShaderInfoLog(id ShaderID) string

	// DeleteShader releases a shader object. Unknown IDs are ignored.
	DeleteShader(id ShaderID)
}

// ProgramDevice manages linked programs.
type ProgramDevice interface {
	// CreateProgram creates an empty program object.
	CreateProgram() (ProgramID, error)

	// AttachShader attaches a compiled shader to a program.
	AttachShader(program ProgramID, shader ShaderID) error

	// DetachShader detaches a shader. Unknown IDs are ignored.
	DetachShader(program ProgramID, shader ShaderID)

	// LinkProgram links the attached shaders and reports success.
	// Failure details are available through ProgramInfoLog.
	LinkProgram(program ProgramID) bool

	// ProgramInfoLog returns the log of the last link.
	ProgramInfoLog(program ProgramID) string

	// UniformLocation returns the location of a named uniform of a linked
	// program, or -1 if the program has no such uniform.
	UniformLocation(program ProgramID, name string) int32

	// DeleteProgram releases a program object. Unknown IDs are ignored.
	DeleteProgram(program ProgramID)
}

// TextureDevice manages textures.
type TextureDevice interface {
	// CreateTexture allocates a texture. Every call returns a new ID.
	CreateTexture(desc TextureDesc) (TextureID, error)

	// DeleteTexture releases a texture. Unknown IDs are ignored.
	DeleteTexture(id TextureID)
}

// FramebufferDevice manages framebuffer objects.
type FramebufferDevice interface {
	// CreateFramebuffer creates an empty framebuffer object.
	CreateFramebuffer() (FramebufferID, error)

	// FramebufferTexture binds a texture mip level at an attachment point.
	FramebufferTexture(fb FramebufferID, point AttachmentPoint, tex TextureID, level uint32) error

	// FramebufferDrawBuffers sets the draw-buffer table in one call. Entry i
	// is the attachment fragment output i writes to, or NoAttachment.
	FramebufferDrawBuffers(fb FramebufferID, buffers []AttachmentPoint) error

	// CheckFramebufferStatus reports completeness.
	CheckFramebufferStatus(fb FramebufferID) FramebufferStatus

	// DeleteFramebuffer releases a framebuffer object. Attached textures
	// are not deleted. Unknown IDs are ignored.
	DeleteFramebuffer(fb FramebufferID)
}
