package usecase

import (
	"strings"

	"github.com/ArjunDas2003/ai-chatbot/domain"
)

// instructionHistoryText is persisted as the bot side of a turn whose reply
// carried only pass-through instructions and no speech.
const instructionHistoryText = "Executing instruction."

// Assemble folds a parsed response and its dispatch output into the outgoing
// reply plus the text that becomes the turn's history entry. Pure: calling it
// twice on the same inputs yields identical output.
func Assemble(parsed domain.ModelResponse, dispatch domain.DispatchResult) (domain.Reply, string) {
	if parsed.Kind == domain.KindConversation {
		speech := parsed.Speech
		return domain.Reply{
			Action: domain.ActionConversation,
			Speech: &speech,
		}, speech
	}

	instructions := dispatch.Instructions
	if instructions == nil {
		instructions = []domain.Instruction{}
	}

	if len(dispatch.Confirmations) > 0 {
		speech := strings.Join(dispatch.Confirmations, " ")
		return domain.Reply{
			Action:      domain.ActionInstructionAndConversation,
			Speech:      &speech,
			Instruction: &instructions,
		}, speech
	}

	// All commands were pass-through: no speech key on the wire, but the
	// history still records that the turn did something.
	return domain.Reply{
		Action:      domain.ActionInstruction,
		Instruction: &instructions,
	}, instructionHistoryText
}
