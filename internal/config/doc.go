// Package config defines the format-agnostic model of a project file: the
// provisioning requests it declares, the compiler suites it describes and
// the default (pillar) values it carries.
//
// The `config.Model` is the single source of truth for the `provision`
// package. Concrete loaders, such as the HCL one, live in separate packages.
package config
