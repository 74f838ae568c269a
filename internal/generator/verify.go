package generator

import (
	"fmt"
	"os"
	"strings"

	bpparser "github.com/google/blueprint/parser"
)

// Verify parses a blueprint file and reports syntax errors. Used to prove the
// generated output is valid before anyone feeds it to the build.
func Verify(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, errs := bpparser.Parse(path, f, bpparser.NewScope(nil))
	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("%s is not valid blueprint: %s", path, strings.Join(msgs, "; "))
	}
	return nil
}
