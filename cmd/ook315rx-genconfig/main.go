// Command ook315rx-genconfig emits an annotated ook315rx.toml populated with
// config.Default()'s values, one line per field, preceded by its desc tag
// as a comment line. It is the receiver's equivalent of the teacher's
// gen_verilog: both walk a tagged struct with reflection and print one
// artifact line per field, gen_verilog for FPGA registers, this one for
// TOML keys.
package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/n0rx/ook315rx/config"
)

func main() {
	cfg := config.Default()
	v := reflect.ValueOf(cfg)
	t := v.Type()

	fmt.Println("# generated by ook315rx-genconfig — edit and save as ook315rx.toml")
	fmt.Println()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := f.Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		if desc := f.Tag.Get("desc"); desc != "" {
			fmt.Fprintf(os.Stdout, "# %s\n", desc)
		}
		fmt.Printf("%s = %s\n\n", key, tomlValue(v.Field(i)))
	}
}

func tomlValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return fmt.Sprintf("%q", v.String())
	case reflect.Float64:
		return fmt.Sprintf("%g", v.Float())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
