package imagerepo

import "embed"

// ContentFS contains the markdown pages under content/.
//
//go:embed content/*.md
var ContentFS embed.FS
