// Package hcl provides the HCL implementation of config.Loader. It parses
// project files, decodes the union-typed project attributes and translates
// everything into the format-agnostic config model.
package hcl
