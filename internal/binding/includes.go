package binding

import (
	"regexp"
	"strings"
)

// systemHeaders match origin files that never become include directives.
var systemHeaders = []*regexp.Regexp{
	regexp.MustCompile(`^/usr/include/`),
	regexp.MustCompile(`^/usr/lib/gcc/`),
	regexp.MustCompile(`^/usr/local/include/`),
	regexp.MustCompile(`^<`),
}

// header returns the include and use directives that open the output.
func (c *Client) header() []string {
	var lines []string
	for _, inc := range c.includes() {
		lines = append(lines, "include "+inc)
	}
	for _, u := range c.cfg.Use {
		lines = append(lines, "use "+u)
	}
	return lines
}

// includes lists the distinct origin files of all entities in first-seen
// order, without the .h suffix.
func (c *Client) includes() []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range c.reg.Entities() {
		if e.File == "" || seen[e.File] || c.isIgnored(e.File) {
			continue
		}
		seen[e.File] = true
		out = append(out, strings.TrimSuffix(e.File, ".h"))
	}
	return out
}

func (c *Client) isIgnored(file string) bool {
	for _, re := range systemHeaders {
		if re.MatchString(file) {
			return true
		}
	}
	for _, re := range c.cfg.IgnoreFiles {
		if re.MatchString(file) {
			return true
		}
	}
	return false
}
