// Package narrative generates story scenes for game sessions.
//
// Scenes come from an OpenAI-compatible chat completion endpoint when one is
// configured. Generation is advisory: every caller falls back to the
// deterministic scene when the collaborator is unavailable, times out or
// returns an unparsable response.
package narrative

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
)

// Request carries the session context a scene is generated from.
type Request struct {
	PlayerName    string
	Race          domain.Race
	Story         domain.Story
	Stats         domain.Stats
	PlayerChoice  string
	ChoiceSuccess *bool
}

// Scene is a generated story beat with its follow-up choices.
type Scene struct {
	Text    string          `json:"scene"`
	Choices []domain.Choice `json:"choices"`
}

// BuildPrompt renders the narrator prompt for a scene request. The last
// three history entries anchor continuity without unbounded prompt growth.
func BuildPrompt(req Request) string {
	var successContext string
	if req.ChoiceSuccess != nil {
		outcome := "FAILURE"
		if *req.ChoiceSuccess {
			outcome = "SUCCESS"
		}
		successContext = fmt.Sprintf("LAST CHOICE OUTCOME: %s - This should significantly impact the story direction.", outcome)
	}

	history := req.Story.History
	if len(history) > 3 {
		history = history[len(history)-3:]
	}

	choiceContext := "STARTING NEW GAME"
	continuation := "Begins their journey in their village"
	if req.PlayerChoice != "" {
		choiceContext = "PLAYER'S LAST CHOICE: " + req.PlayerChoice
		if req.ChoiceSuccess != nil && !*req.ChoiceSuccess {
			continuation = "Continues from their choice with negative consequences for failure"
		} else {
			continuation = "Continues from their choice with positive consequences for success"
		}
	}

	var failureNote string
	if req.ChoiceSuccess != nil && !*req.ChoiceSuccess {
		failureNote = "Shows clear negative consequences and setbacks from the failed choice"
	}

	return fmt.Sprintf(`You are the narrator of "Kingdoms of Fate," an epic text adventure RPG with D&D-style mechanics.

PLAYER CONTEXT:
- Name: %s
- Race: %s (%s)
- Traits: %s
- Buffs: %s
- Debuffs: %s
- Kingdom: %s (%s)
- Chapter: %d
- Stats: Health %d/%d, Strength %d, Intelligence %d, Charisma %d, Luck %d

STORY HISTORY:
%s

%s
%s

Generate a compelling story scene (2-3 paragraphs) that:
1. Uses the player's name %q throughout the narrative
2. Reflects the player's race traits and current kingdom development
3. %s
4. %s
5. Presents meaningful challenges appropriate to their current power level
6. Includes opportunities for kingdom growth and faction interactions
7. Incorporates chances for dice-based skill checks

Then provide exactly 3 meaningful choices that could:
- Require different skill checks (Strength, Intelligence, Charisma, or Luck)
- Lead to combat, diplomacy, exploration, or trade
- Have clear consequences for kingdom development
- Reflect the player's racial abilities and traits

Format your response as:
SCENE: [Your story scene here - must include player name %q]

CHOICE1: [First choice - should involve skill/dice rolls]
CHOICE2: [Second choice - different approach]
CHOICE3: [Third choice - alternative solution]`,
		req.PlayerName,
		req.Race.Name, req.Race.Description,
		strings.Join(req.Race.Traits, ", "),
		strings.Join(req.Race.Buffs, ", "),
		strings.Join(req.Race.Debuffs, ", "),
		req.Story.KingdomName, req.Story.KingdomSize,
		req.Story.Chapter,
		req.Stats.Health, req.Stats.MaxHealth,
		req.Stats.Strength, req.Stats.Intelligence, req.Stats.Charisma, req.Stats.Luck,
		strings.Join(history, "\n"),
		choiceContext,
		successContext,
		continuation,
		failureNote,
		req.PlayerName,
		req.PlayerName,
	)
}

var (
	scenePattern   = regexp.MustCompile(`(?s)SCENE: (.*?)(?:CHOICE1:)`)
	choice1Pattern = regexp.MustCompile(`(?s)CHOICE1: (.*?)(?:CHOICE2:)`)
	choice2Pattern = regexp.MustCompile(`(?s)CHOICE2: (.*?)(?:CHOICE3:)`)
	choice3Pattern = regexp.MustCompile(`(?s)CHOICE3: (.*)$`)
)

// ParseResponse extracts the scene and its three choices from raw completion
// content. Responses missing any marker are rejected so callers fall back.
func ParseResponse(content string) (Scene, error) {
	sceneMatch := scenePattern.FindStringSubmatch(content)
	choice1Match := choice1Pattern.FindStringSubmatch(content)
	choice2Match := choice2Pattern.FindStringSubmatch(content)
	choice3Match := choice3Pattern.FindStringSubmatch(content)

	if sceneMatch == nil || choice1Match == nil || choice2Match == nil || choice3Match == nil {
		return Scene{}, fmt.Errorf("response is missing scene or choice markers")
	}

	return Scene{
		Text: strings.TrimSpace(sceneMatch[1]),
		Choices: []domain.Choice{
			{Text: strings.TrimSpace(choice1Match[1])},
			{Text: strings.TrimSpace(choice2Match[1])},
			{Text: strings.TrimSpace(choice3Match[1])},
		},
	}, nil
}

// FallbackScene builds the deterministic scene used when generation fails.
func FallbackScene(req Request) Scene {
	transition := "New adventures await in this growing realm."
	if req.ChoiceSuccess != nil && !*req.ChoiceSuccess {
		transition = "The previous attempt didn't go as planned, but there are new opportunities ahead."
	}
	text := fmt.Sprintf("%s continues their journey in %s. %s The %s needs strong leadership to prosper.",
		req.PlayerName, req.Story.KingdomName, transition, req.Story.KingdomSize)

	return Scene{
		Text: text,
		Choices: []domain.Choice{
			{Text: "Explore the surrounding area for opportunities"},
			{Text: "Focus on strengthening your settlement's defenses"},
			{Text: "Seek out allies and trade partners"},
		},
	}
}
