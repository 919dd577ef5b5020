package interviewflow_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/embld/interviewflow"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/llm"
)

// The scripted interview nodes run without calling the model, so an offline
// client is enough to walk the first questions.
func ExampleNew() {
	offline := llm.ClientFunc(func(context.Context, llm.Request) (llm.Response, error) {
		return llm.Response{}, errors.New("offline")
	})
	engine, err := interviewflow.New(offline)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	res, err := engine.Execute(ctx, interviewflow.StartNode, interviewflow.NewState(), "")
	if err != nil {
		log.Fatal(err)
	}
	q := res.Response.(domain.QuestionResponse)
	fmt.Printf("[%d/%d] %s\n", q.Current, q.Total, q.Prompt)

	res, err = engine.Execute(ctx, interviewflow.StartNode, res.State, "An app that sings harmonies with you")
	if err != nil {
		log.Fatal(err)
	}
	q = res.Response.(domain.QuestionResponse)
	fmt.Printf("[%d/%d] %s\n", q.Current, q.Total, q.Prompt)
	fmt.Println(res.State.ClarificationAnswers["service_overview"])

	// Output:
	// [1/9] Give a short overview of the service you want to build.
	// [2/9] What problem do you want to solve?
	// An app that sings harmonies with you
}
