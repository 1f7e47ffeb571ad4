package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Символьный слой: сигнатуры, загрузка классов
	SymInfo               Code = 1000
	SymMalformedSignature Code = 1001
	SymUnresolvedClass    Code = 1002
	SymTypeArgCount       Code = 1003
	SymDuplicateClass     Code = 1004
	SymCyclicInheritance  Code = 1005
	SymBadAccessFlags     Code = 1006

	// Разрешение перегрузок и вывод типов
	InfInfo                   Code = 2000
	InfNoApplicableMethod     Code = 2001
	InfAmbiguousMethod        Code = 2002
	InfUnresolvedReceiver     Code = 2003
	InfNotFunctionalInterface Code = 2004
	InfIncompatibleLambda     Code = 2005
	InfUncheckedConversion    Code = 2006
	InfNoCompileTimeDecl      Code = 2007
	InfUnsolvedVariable       Code = 2008

	// Ошибки I/O
	IOLoadFileError Code = 4001
	IOIndexDecode   Code = 4002
	IOCacheStale    Code = 4003

	// Ошибки конфигурации проекта
	ProjInfo          Code = 5000
	ProjInvalidConfig Code = 5001
	ProjMissingIndex  Code = 5002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	SymInfo:                   "Symbol information",
	SymMalformedSignature:     "Malformed signature",
	SymUnresolvedClass:        "Class cannot be resolved",
	SymTypeArgCount:           "Wrong number of type arguments",
	SymDuplicateClass:         "Duplicate class definition",
	SymCyclicInheritance:      "Cyclic inheritance",
	SymBadAccessFlags:         "Invalid access flags",
	InfInfo:                   "Inference information",
	InfNoApplicableMethod:     "No applicable method",
	InfAmbiguousMethod:        "Ambiguous method invocation",
	InfUnresolvedReceiver:     "Receiver type cannot be resolved",
	InfNotFunctionalInterface: "Target is not a functional interface",
	InfIncompatibleLambda:     "Lambda body is incompatible with the function type",
	InfUncheckedConversion:    "Unchecked conversion",
	InfNoCompileTimeDecl:      "No compile-time declaration for method reference",
	InfUnsolvedVariable:       "Inference variable has no solution",
	IOLoadFileError:           "I/O load file error",
	IOIndexDecode:             "Stub index cannot be decoded",
	IOCacheStale:              "Index cache is stale",
	ProjInfo:                  "Project information",
	ProjInvalidConfig:         "Invalid jsema.toml",
	ProjMissingIndex:          "Stub index not found",
	ObsInfo:                   "Observability information",
	ObsTimings:                "Session timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYM%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("INF%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
