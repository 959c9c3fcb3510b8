package check_test

import (
	"context"
	"fmt"

	"github.com/openfleet/agentmon/check"
)

func ExampleRegistry_Register() {
	reg := check.NewRegistry()

	reg.Register("database", func(ctx context.Context) (check.Outcome, error) {
		return check.Score(100), nil
	}, check.Options{Weight: 3, Critical: true})

	def, _ := reg.Get("database")
	out, _ := def.Run(context.Background())

	fmt.Println("Name:", def.Name)
	fmt.Println("Weight:", def.Weight)
	fmt.Println("Score:", out.Score)
	fmt.Println("Status:", out.Status)
	// Output:
	// Name: database
	// Weight: 3
	// Score: 100
	// Status: healthy
}

func ExampleStatusForScore() {
	fmt.Println(check.StatusForScore(90))
	fmt.Println(check.StatusForScore(60))
	fmt.Println(check.StatusForScore(30))
	// Output:
	// healthy
	// warning
	// critical
}
