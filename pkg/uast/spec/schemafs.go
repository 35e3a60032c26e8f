// Package spec embeds the UAST JSON schema.
package spec

import _ "embed"

// Schema is the JSON schema every UAST document must satisfy.
//
//go:embed uast-schema.json
var Schema []byte
