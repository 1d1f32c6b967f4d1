// Package config defines the format-agnostic model of a diagram file set,
// along with the Loader interface that turns files on disk into it.
//
// The `config.Model` is the single input of the `program` builder. Concrete
// loaders, such as the HCL one, are provided in separate packages.
package config
