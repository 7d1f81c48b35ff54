package main

import (
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/cmdline"
)

func main() {
	cmdline.MustDispatch(trainCmd, evaluateCmd)
}
