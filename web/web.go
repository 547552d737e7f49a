// Package web 内嵌站点模板。
package web

import "embed"

// Templates 包含 template 目录下的全部 HTML 模板。
//
//go:embed template/*.html
var Templates embed.FS
