// Package platform provides cross-platform filesystem operations used when
// writing into consumer projects: atomic file replacement (write to a temp
// file in the same directory, then rename) and permission management. On
// Windows, Unix permission bits are not applied.
package platform
