// Package hcl provides the concrete HCL implementation of the diagram
// loading and encoding interfaces defined in the `config` package.
// It is responsible for file discovery, parsing, HCL-to-model translation
// and the cty conversion of node attribute values.
//
// A diagram file looks like this:
//
//	subroutine "main" {
//	  node "start" {
//	    kind = "ftProProcessStart"
//	    pin "start.out" { class = "flowobjectoutput" }
//	  }
//	  node "lamp" {
//	    kind       = "ftProDataOutSngl"
//	    attributes = { classic = true, module = "IF1", output = 1, value = 7 }
//	    pin "lamp.in"  { class = "flowobjectinput" }
//	    pin "lamp.out" { class = "flowobjectoutput" }
//	  }
//	  wire {
//	    from = ["start.out"]
//	    to   = ["lamp.in"]
//	  }
//	}
//
//	sensor "IF1" {
//	  port  = 1
//	  value = 0
//	}
package hcl
