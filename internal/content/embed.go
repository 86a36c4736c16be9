package content

import "embed"

// Embedded holds the default page content shipped with the binary
//
//go:embed defaults/*.yaml
var Embedded embed.FS

const defaultsDir = "defaults"
