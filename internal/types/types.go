// Package types holds the value-record data model produced by one
// extraction run: locations, operands, event IDs, template placeholders,
// usage records and the summary views derived from them.
//
// Every entity here is an immutable value. None holds a reference back to
// a syntax or semantic tree, so results stay safe to use after the
// compilation that produced them is released.
package types

import "fmt"

// Location is an absolute, half-open-on-column source span.
type Location struct {
	File       string
	StartLine  int
	StartCol   int
	EndLine    int
	EndCol     int
}

// Valid reports whether the location satisfies the data-model invariant:
// non-empty file path and start <= end.
func (l Location) Valid() bool {
	if l.File == "" {
		return false
	}
	if l.StartLine > l.EndLine {
		return false
	}
	if l.StartLine == l.EndLine && l.StartCol > l.EndCol {
		return false
	}
	return true
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Identifier returns the stable "filepath:line:column" usage identifier.
// Callers persist this across runs, so the format is not subject to
// change.
func (l Location) Identifier() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// TemplatePlaceholder is one `{Name}` occurrence parsed out of a message
// template, alignment/format specs stripped.
type TemplatePlaceholder struct {
	Name  string
	Index int
}

// OperandKind tags the variant held by an Operand.
type OperandKind int

const (
	// OperandConstant holds a compile-time-known value.
	OperandConstant OperandKind = iota
	// OperandReference holds an unevaluated source expression.
	OperandReference
	// OperandMissing marks an absent or implicit-default argument.
	OperandMissing
)

func (k OperandKind) String() string {
	switch k {
	case OperandConstant:
		return "Constant"
	case OperandReference:
		return "Reference"
	case OperandMissing:
		return "Missing"
	default:
		return "Unknown"
	}
}

// Operand is a tagged union: a call argument classified as a known
// constant, an unevaluated reference expression, or absent entirely.
type Operand struct {
	Kind OperandKind

	// Populated when Kind == OperandConstant.
	Value interface{}
	Type  string

	// Populated when Kind == OperandReference.
	OperationKind string // e.g. "Identifier", "MemberAccess", "Call"
	SourceText    string
}

// IsMissing reports whether the operand is the Missing variant.
func (o Operand) IsMissing() bool { return o.Kind == OperandMissing }

// Missing is the canonical Missing operand value.
var Missing = Operand{Kind: OperandMissing}

// Constant builds a Constant operand.
func Constant(value interface{}, typ string) Operand {
	return Operand{Kind: OperandConstant, Value: value, Type: typ}
}

// Reference builds a Reference operand.
func Reference(operationKind, sourceText string) Operand {
	return Operand{Kind: OperandReference, OperationKind: operationKind, SourceText: sourceText}
}

// EventIDKind tags the EventID variant.
type EventIDKind int

const (
	// EventIDDetails holds a recovered (id, name) pair, at least one non-Missing.
	EventIDDetails EventIDKind = iota
	// EventIDRef holds a symbolic expression the extractor chose not to evaluate.
	EventIDRef
)

// EventID is a tagged union: either a recovered (id, name) pair or a
// symbolic reference expression left unevaluated.
type EventID struct {
	Kind EventIDKind

	// Populated when Kind == EventIDDetails.
	ID   Operand
	Name Operand

	// Populated when Kind == EventIDRef.
	OperationKind string
	SourceText    string
}

// Details builds an EventIDDetails value. Caller must ensure at least one
// of id/name is non-Missing before use.
func Details(id, name Operand) EventID {
	return EventID{Kind: EventIDDetails, ID: id, Name: name}
}

// Ref builds an EventIDRef value.
func Ref(operationKind, sourceText string) EventID {
	return EventID{Kind: EventIDRef, OperationKind: operationKind, SourceText: sourceText}
}

// MessageParameter aligns one template placeholder with its originating
// operand.
type MessageParameter struct {
	Name string
	Type string
	Kind string // "Constant", "Reference", "GenericTypeArgument", "MethodParameter", "AnonymousProperty"; a non-constant key-value pair value carries its operation kind (e.g. "Identifier")
}

// LogLevel mirrors the six-plus-none level scale of the target API family.
type LogLevel int

const (
	LevelTrace LogLevel = iota
	LevelDebug
	LevelInformation
	LevelWarning
	LevelError
	LevelCritical
	LevelNone
)

func (l LogLevel) String() string {
	switch l {
	case LevelTrace:
		return "Trace"
	case LevelDebug:
		return "Debug"
	case LevelInformation:
		return "Information"
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	case LevelCritical:
		return "Critical"
	case LevelNone:
		return "None"
	default:
		return "Unknown"
	}
}

// ParseLevel resolves a level name (case-sensitive, as it appears in the
// target API's enum) to a LogLevel. The bool is false for unrecognized
// names, in which case callers must not fabricate a level.
func ParseLevel(name string) (LogLevel, bool) {
	switch name {
	case "Trace":
		return LevelTrace, true
	case "Debug":
		return LevelDebug, true
	case "Information":
		return LevelInformation, true
	case "Warning":
		return LevelWarning, true
	case "Error":
		return LevelError, true
	case "Critical":
		return LevelCritical, true
	case "None":
		return LevelNone, true
	default:
		return 0, false
	}
}

// LogPropertyInfo describes one property contributed by a LogProperties
// parameter, possibly recursed into nested properties when extraction is
// transitive.
type LogPropertyInfo struct {
	Name           string
	TagName        string // resolved tag-rename, equals Name when no rename attribute applies
	TypeName       string
	Nullable       bool
	Classification string // data-classification tag, empty when absent
	Nested         []LogPropertyInfo
}

// TagProviderSpec describes a validated (or rejected) tag-provider
// declaration on a LogProperties parameter.
type TagProviderSpec struct {
	ParameterName       string
	ProviderType        string
	ProviderMethod      string
	OmitReferenceName   bool
	Valid               bool
	InvalidMessage      string
}

// LogPropertiesParameter is a structured-logging parameter whose fields are
// expanded into individual logged properties rather than a single
// placeholder.
type LogPropertiesParameter struct {
	ParameterName     string
	OwnerType         string
	OmitReferenceName bool
	SkipNullProps     bool
	Transitive        bool
	Properties        []LogPropertyInfo
	TagProvider       *TagProviderSpec
}

// MethodKind tags which of the four call-site surface forms produced a
// UsageRecord.
type MethodKind int

const (
	DirectLogger MethodKind = iota
	AttributeDeclared
	DelegateFactory
	ScopeBegin
)

func (k MethodKind) String() string {
	switch k {
	case DirectLogger:
		return "DirectLogger"
	case AttributeDeclared:
		return "AttributeDeclared"
	case DelegateFactory:
		return "DelegateFactory"
	case ScopeBegin:
		return "ScopeBegin"
	default:
		return "Unknown"
	}
}

// UsageRecord is one fully-located, fully-typed logging usage.
type UsageRecord struct {
	Identifier string
	MethodKind MethodKind
	MethodName string

	// Level is nil when the call site does not encode a level (e.g. a
	// scope-begin call).
	Level *LogLevel

	// EventIDValue is nil when no event id could be extracted or attributed
	// at all (not the same as an EventID whose fields are Missing).
	EventIDValue *EventID

	// Template is nil when the call site has no message template operand.
	Template *string

	Parameters []MessageParameter

	LogProperties []LogPropertiesParameter

	Location Location

	// CallSites is populated only for MethodKind == AttributeDeclared: the
	// invocation records the cross-reference finder recovered for this
	// directive-declared method.
	CallSites []InvocationRecord
}

// InvocationRecord describes one call site of an AttributeDeclared method,
// discovered by the Cross-Reference Finder.
type InvocationRecord struct {
	ContainingType string
	Location       Location
	Arguments      []ArgumentDescriptor
}

// ArgumentDescriptor names one argument at an invocation site, by the
// callee's formal parameter.
type ArgumentDescriptor struct {
	Name string
	Type string
}

// Inconsistency flags two records whose message templates normalize to the
// same canonical form but disagree on a positional parameter's type.
type Inconsistency struct {
	CanonicalTemplate string
	ParameterIndex    int
	FirstIdentifier   string
	FirstType         string
	SecondIdentifier  string
	SecondType        string
}

// Summary holds the cross-record views computed over one extraction run.
type Summary struct {
	CountByMethodKind map[string]int
	CountByLevel      map[string]int
	ParameterNameHist map[string]int
	Inconsistencies   []Inconsistency
}

// ExtractionResult is the output of one extraction pass.
type ExtractionResult struct {
	Records []UsageRecord
	Summary Summary

	// Partial is true when the run was cancelled before every syntax tree
	// was processed; Records then holds only the trees completed so far.
	Partial bool
}
