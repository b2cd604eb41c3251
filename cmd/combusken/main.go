// Command combusken is the UCI engine binary: it wires stdin/stdout to
// the uci package's driver loop. Named after the teacher engine this
// module's search core is grounded on.
package main

import (
	"os"

	"github.com/op/go-logging"

	"github.com/mhib/lazybeak/uci"
)

func main() {
	logging.SetBackend(logging.NewLogBackend(os.Stderr, "", 0))
	logging.SetLevel(logging.WARNING, "")

	driver := uci.NewDriver(os.Stdout)
	driver.Run(os.Stdin)
}
