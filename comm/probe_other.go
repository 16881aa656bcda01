//go:build !unix

package comm

func diagnoseOpen(path string) string {
	return ""
}
