// Command formdescriptor generates JSON form descriptors from the component
// schemas of an OpenAPI document.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(newSurveyPrompter()).Execute(); err != nil {
		os.Exit(1)
	}
}
