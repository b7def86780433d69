package domain

import (
	"encoding/json"
	"fmt"
)

// ResponseKind tags what the model decided a query was.
type ResponseKind int

const (
	// KindConversation means the model answered in free text.
	KindConversation ResponseKind = iota
	// KindInstruction means the model produced a command list.
	KindInstruction
)

// ModelResponse is the validated form of one raw model output.
// Speech is set for KindConversation, Commands for KindInstruction.
type ModelResponse struct {
	Kind     ResponseKind
	Speech   string
	Commands []Command
}

// Instruction is one client-executable object on the wire, always a
// single-key JSON object such as {"open_url": "..."}.
type Instruction = json.RawMessage

// DispatchResult accumulates the output of executing an instruction list.
// Confirmations follow the input command order; Instructions follow the input
// order minus commands that produced no client instruction.
type DispatchResult struct {
	Confirmations []string
	Instructions  []Instruction
}

// ReplyAction is the outgoing action tag clients switch on.
type ReplyAction string

const (
	ActionConversation               ReplyAction = "conversation"
	ActionInstruction                ReplyAction = "instruction"
	ActionInstructionAndConversation ReplyAction = "instruction_and_conversation"
)

// Reply is the wire contract of one chat turn. Speech and Instruction are
// pointers so that an omitted key and a present-but-empty value are distinct
// on the wire: a pure instruction reply carries no speech key at all, while
// an instruction_and_conversation reply always carries the instruction key
// even when the list is empty.
type Reply struct {
	Action      ReplyAction    `json:"action"`
	Speech      *string        `json:"speech,omitempty"`
	Instruction *[]Instruction `json:"instruction,omitempty"`
}

// ParseErrorKind classifies why raw model text could not become a
// ModelResponse.
type ParseErrorKind int

const (
	// ParseMalformed means the text was not valid JSON at all.
	ParseMalformed ParseErrorKind = iota
	// ParseUnknownShape means the JSON decoded but did not match the
	// response contract (missing action, instruction without a list, ...).
	ParseUnknownShape
)

// ParseError is the recoverable failure of interpreting model output. Raw
// keeps the offending text for diagnostics.
type ParseError struct {
	Kind ParseErrorKind
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ParseMalformed:
		return fmt.Sprintf("model output is not valid JSON: %v", e.Err)
	default:
		return "model output does not match the response contract"
	}
}

func (e *ParseError) Unwrap() error { return e.Err }
