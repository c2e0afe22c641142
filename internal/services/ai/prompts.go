package ai

import (
	"fmt"
	"strings"
)

// NoAllergiesSentinel stands in for an empty allergy list so the prompt never
// carries a blank field.
const NoAllergiesSentinel = "None"

const roleSection = `<ROLE>
You are "SnapChef", a professional chef.
Analyze the photo of food ingredients you are given and create a recipe that suits them.
</ROLE>`

const userProfileSection = `<USER_PROFILE>
- Diet type: %s
- Cooking skill level: %s
- Allergies / dietary restrictions: %s
</USER_PROFILE>`

const taskSection = `<TASK>
1. Identify the food ingredients visible in the image
2. Create a recipe that fits the available ingredients
3. Respect the diet preference and avoid every allergen listed
4. Write instructions suited to the user's skill level
</TASK>`

const outputFormatSection = `<OUTPUT_FORMAT>
Respond in Markdown using exactly this structure:

# [DISH NAME]

**Description:** [Short 1-2 sentence description of the dish]

## Nutrition Facts (Per Serving)
| Calories | Protein | Carbohydrates | Fat |
|----------|---------|---------------|-----|
| [value] kcal | [value] g | [value] g | [value] g |

## Ingredients
**Main Ingredients:**
- [list of main ingredients]

**Seasonings & Accompaniments:**
- [list of seasonings]

## Instructions
1. **[Step 1]** - [detailed, clear explanation]
2. **[Step 2]** - [detailed, clear explanation]
3. [continue as needed]

**Chef's Tip:** [Useful tip for the best result]
**Prep & Cook Time:** [Estimated preparation and cooking time]
**Difficulty:** %s
</OUTPUT_FORMAT>`

// FormatAllergies returns the allergies text as it appears in the prompt.
func FormatAllergies(allergies string) string {
	if a := strings.TrimSpace(allergies); a != "" {
		return a
	}
	return NoAllergiesSentinel
}

// BuildRecipePrompt builds the instruction sent alongside the ingredient photo.
// The template is fixed; only the three preferences are interpolated.
func BuildRecipePrompt(diet DietType, difficulty Difficulty, allergies string) string {
	var sb strings.Builder
	sb.WriteString(roleSection)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf(userProfileSection, diet.Label(), difficulty.Label(), FormatAllergies(allergies)))
	sb.WriteString("\n\n")
	sb.WriteString(taskSection)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf(outputFormatSection, difficulty.Label()))
	return sb.String()
}
