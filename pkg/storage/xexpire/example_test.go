package xexpire_test

import (
	"fmt"
	"time"

	"github.com/omeyang/xexpire/pkg/storage/xexpire"
)

func ExampleSet() {
	done := make(chan string, 1)
	s, err := xexpire.New(
		xexpire.WithName[string]("sessions"),
		xexpire.WithDefaultDuration[string](xexpire.Finite(20*time.Millisecond)),
		xexpire.WithOnExpired(func(ev xexpire.Expired[string]) { done <- ev.Value }),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer s.Close()

	s.AddDefault("token-1")
	s.Add("admin", xexpire.Unlimited())

	fmt.Println("expired:", <-done)
	fmt.Println("admin still present:", s.Contains("admin"))
	// Output:
	// expired: token-1
	// admin still present: true
}

func ExampleParseStorageDuration() {
	for _, text := range []string{"unlimited", "default", "1m30s"} {
		d, err := xexpire.ParseStorageDuration(text)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(d, d.IsFinite())
	}
	// Output:
	// unlimited false
	// default false
	// 1m30s true
}

func ExampleSet_TryUpdateValue() {
	s, _ := xexpire.New[string]()
	defer s.Close()

	s.Add("draft", xexpire.Finite(time.Hour))
	s.TryUpdateValue("draft", "published", false)

	d, _ := s.TryGetDuration("published")
	fmt.Println(s.Contains("draft"), s.Contains("published"), d)
	// Output:
	// false true 1h0m0s
}
