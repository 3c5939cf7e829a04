package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Encode bool
	Decode bool
	Parse  bool
	Bind   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Encode = boolEnv("JSTREAM_DEBUG_ENCODE")
	d.Decode = boolEnv("JSTREAM_DEBUG_DECODE")
	d.Parse = boolEnv("JSTREAM_DEBUG_PARSE")
	d.Bind = boolEnv("JSTREAM_DEBUG_BIND")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Encode() bool {
	return d.Encode
}
func Decode() bool {
	return d.Decode
}
func Parse() bool {
	return d.Parse
}
func Bind() bool {
	return d.Bind
}
