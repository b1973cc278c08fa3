// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package writers

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate -header ../../license_prefix.txt

import "github.com/gardener/astroforge/pkg/mdx"

// Writer writes a compiled page with name to a given path. The compile
// result is optional and carries the statistics reported by dry runs.
//
//counterfeiter:generate . Writer
type Writer interface {
	Write(name, path string, content []byte, res *mdx.Result) error
}
