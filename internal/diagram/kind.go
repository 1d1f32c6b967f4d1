package diagram

// Kind identifies the behaviour of a node.
type Kind int

const (
	KindUnknown Kind = iota
	KindProcessStart
	KindProcessStop
	KindFlowIf
	KindDataIn
	KindDataHelper
	KindDataMssg
	KindDataOutDual
	KindDataOutDualEx
	KindDataOutSngl
	KindFlowWaitChange
	KindFlowWaitCount
	KindFlowCountLoop
	KindFlowSound
	KindDataConst
	KindDataVariable
	KindFlowDelay
	KindSubroutineRef
	KindSubroutineFlowIn
	KindSubroutineFlowOut
	KindSubroutineDataIn
	KindSubroutineDataOut
)

// classNames maps each kind to the class name used in diagram files.
var classNames = map[Kind]string{
	KindProcessStart:      "ftProProcessStart",
	KindProcessStop:       "ftProProcessStop",
	KindFlowIf:            "ftProFlowIf",
	KindDataIn:            "ftProDataIn",
	KindDataHelper:        "dataHelper",
	KindDataMssg:          "ftProDataMssg",
	KindDataOutDual:       "ftProDataOutDual",
	KindDataOutDualEx:     "ftProDataOutDualEx",
	KindDataOutSngl:       "ftProDataOutSngl",
	KindFlowWaitChange:    "ftProFlowWaitChange",
	KindFlowWaitCount:     "ftProFlowWaitCount",
	KindFlowCountLoop:     "ftProFlowCountLoop",
	KindFlowSound:         "ftProFlowSound",
	KindDataConst:         "ftProDataConst",
	KindDataVariable:      "ftProDataVariable",
	KindFlowDelay:         "ftProFlowDelay",
	KindSubroutineRef:     "ftProSubroutineRef",
	KindSubroutineFlowIn:  "ftProSubroutineFlowIn",
	KindSubroutineFlowOut: "ftProSubroutineFlowOut",
	KindSubroutineDataIn:  "ftProSubroutineDataIn",
	KindSubroutineDataOut: "ftProSubroutineDataOut",
}

var kindsByClass = func() map[string]Kind {
	m := make(map[string]Kind, len(classNames))
	for k, name := range classNames {
		m[name] = k
	}
	return m
}()

// ParseKind returns the kind registered for a class name, or KindUnknown.
func ParseKind(className string) Kind {
	if k, ok := kindsByClass[className]; ok {
		return k
	}
	return KindUnknown
}

// String returns the diagram class name of the kind.
func (k Kind) String() string {
	if name, ok := classNames[k]; ok {
		return name
	}
	return "unknown"
}
