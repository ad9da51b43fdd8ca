// Package scaffold embeds the starter site written by "folio new".
package scaffold

import "embed"

// Templates contains the starter site. Files ending in .tmpl are executed
// as text/template with the site name; the rest are copied as is.
//
//go:embed all:templates
var Templates embed.FS
