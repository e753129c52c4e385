// Package config loads tracking scenarios from YAML.
//
// A scenario names the Lévy drivers, the Langevin axes built on them (axes
// naming the same driver share its jump paths), the position measurement,
// the particle filter settings and the simulation horizon. Load validates
// field ranges with struct tags and cross-checks driver references.
package config
