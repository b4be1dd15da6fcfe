package gl

// OpenGL enumerants used by the backend. Values match the Khronos registry,
// so a Driver passes them to the GL unchanged.
const (
	NO_ERROR                      = 0
	INVALID_ENUM                  = 0x0500
	INVALID_VALUE                 = 0x0501
	INVALID_OPERATION             = 0x0502
	OUT_OF_MEMORY                 = 0x0505
	INVALID_FRAMEBUFFER_OPERATION = 0x0506

	BLEND          = 0x0BE2
	DEPTH_TEST     = 0x0B71
	CULL_FACE      = 0x0B44
	SCISSOR_TEST   = 0x0C11
	LINE_SMOOTH    = 0x0B20
	POLYGON_SMOOTH = 0x0B41
	MULTISAMPLE    = 0x809D

	BACK           = 0x0405
	FRONT_AND_BACK = 0x0408
	CW             = 0x0900
	CCW            = 0x0901
	LINE           = 0x1B01
	FILL           = 0x1B02
	LESS           = 0x0201

	DEPTH_BUFFER_BIT   = 0x00000100
	STENCIL_BUFFER_BIT = 0x00000400
	COLOR_BUFFER_BIT   = 0x00004000

	ZERO                = 0
	ONE                 = 1
	SRC_COLOR           = 0x0300
	ONE_MINUS_SRC_COLOR = 0x0301
	SRC_ALPHA           = 0x0302
	ONE_MINUS_SRC_ALPHA = 0x0303
	DST_ALPHA           = 0x0304
	ONE_MINUS_DST_ALPHA = 0x0305
	DST_COLOR           = 0x0306
	ONE_MINUS_DST_COLOR = 0x0307
	SRC_ALPHA_SATURATE  = 0x0308

	POINTS         = 0x0000
	LINES          = 0x0001
	LINE_LOOP      = 0x0002
	LINE_STRIP     = 0x0003
	TRIANGLES      = 0x0004
	TRIANGLE_STRIP = 0x0005
	TRIANGLE_FAN   = 0x0006

	BYTE           = 0x1400
	UNSIGNED_BYTE  = 0x1401
	SHORT          = 0x1402
	UNSIGNED_SHORT = 0x1403
	INT            = 0x1404
	UNSIGNED_INT   = 0x1405
	FLOAT          = 0x1406

	TEXTURE_2D         = 0x0DE1
	TEXTURE0           = 0x84C0
	TEXTURE_MAG_FILTER = 0x2800
	TEXTURE_MIN_FILTER = 0x2801
	TEXTURE_WRAP_S     = 0x2802
	TEXTURE_WRAP_T     = 0x2803
	NEAREST            = 0x2600
	LINEAR             = 0x2601
	REPEAT             = 0x2901
	CLAMP_TO_BORDER    = 0x812D
	CLAMP_TO_EDGE      = 0x812F
	MIRRORED_REPEAT    = 0x8370
	RGBA               = 0x1908
	RGBA8              = 0x8058

	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	STREAM_DRAW          = 0x88E0
	STATIC_DRAW          = 0x88E4
	DYNAMIC_DRAW         = 0x88E8

	FRAGMENT_SHADER = 0x8B30
	VERTEX_SHADER   = 0x8B31

	FLOAT_VEC2        = 0x8B50
	FLOAT_VEC3        = 0x8B51
	FLOAT_VEC4        = 0x8B52
	INT_VEC2          = 0x8B53
	INT_VEC3          = 0x8B54
	INT_VEC4          = 0x8B55
	BOOL              = 0x8B56
	FLOAT_MAT4        = 0x8B5C
	SAMPLER_2D        = 0x8B5E
	UNSIGNED_INT_VEC2 = 0x8DC6
	UNSIGNED_INT_VEC3 = 0x8DC7
	UNSIGNED_INT_VEC4 = 0x8DC8

	FRAMEBUFFER              = 0x8D40
	RENDERBUFFER             = 0x8D41
	FRAMEBUFFER_COMPLETE     = 0x8CD5
	COLOR_ATTACHMENT0        = 0x8CE0
	DEPTH_STENCIL_ATTACHMENT = 0x821A
	DEPTH24_STENCIL8         = 0x88F0
)
