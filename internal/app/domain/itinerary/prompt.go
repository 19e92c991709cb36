package itinerary

import (
	"fmt"
	"strings"
)

// buildPlanPrompt assembles the instruction prompt for the model. The JSON
// shape spelled out here is the contract the parser relies on, so the two
// must stay in sync.
func buildPlanPrompt(destination, startDate, endDate string, days int, preferences string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a professional travel planner. Create a detailed, realistic travel itinerary for a trip to %s from %s to %s (%d days).\n\n",
		destination, startDate, endDate, days)

	if preferences != "" {
		fmt.Fprintf(&b, "User preferences: %s\n\n", preferences)
	}

	b.WriteString(`IMPORTANT: Return ONLY a valid JSON object with NO markdown formatting, NO code blocks, NO backticks.

The JSON structure must be:
{
  "title": "A catchy trip title",
  "days": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "activities": [
        {
          "time": "09:00 AM",
          "activity": "Activity name",
          "description": "Detailed description (2-3 sentences)",
          "location": {
            "lat": <actual latitude>,
            "lng": <actual longitude>,
            "name": "Specific location name"
          }
        }
      ]
    }
  ]
}

Requirements:
1. Include 4-6 activities per day with realistic times
2. Use REAL coordinates for actual locations in ` + destination + `
3. Include breakfast, lunch, dinner, and attractions
4. Make descriptions engaging and informative
5. Consider travel time between locations
6. Include a mix of popular attractions and hidden gems
7. Respect the user's preferences if provided
8. Ensure activities flow logically throughout the day

Return ONLY the JSON object, nothing else.`)

	return b.String()
}
