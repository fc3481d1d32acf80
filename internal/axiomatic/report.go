package axiomatic

import (
	"fmt"
	"sort"
)

// PrintSummary reports how many consistent executions exist, how many
// carry a race, and which return values a program with races or relaxed
// orderings can produce.
func PrintSummary(result *Result) {
	fmt.Printf("consistent executions: %d\n", len(result.Executions))
	races := result.RaceCount()
	if races > 0 {
		fmt.Println(colour(31, fmt.Sprintf("executions with races: %d", races)))
	} else {
		fmt.Println(colour(32, "executions with races: 0"))
	}
	values := result.ReturnValues()
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	fmt.Printf("observed return values: %v\n", values)
}

func colour(color int, str string) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, str)
}
