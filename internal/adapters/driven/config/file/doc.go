// Package file stores vecseed settings as TOML in ~/.vecseed/config.toml.
package file
