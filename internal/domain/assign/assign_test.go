package assign_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/secretsanta/internal/domain/assign"
	"github.com/okian/secretsanta/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func people(names ...string) []model.Participant {
	out := make([]model.Participant, 0, len(names))
	for _, n := range names {
		out = append(out, model.Participant{Name: n, Email: fmt.Sprintf("%s@example.com", n)})
	}
	return out
}

// assertSingleCycle walks recipient links from the first participant and
// checks every participant is visited exactly once before returning to start.
func assertSingleCycle(c model.Cycle, ps []model.Participant) {
	start := ps[0]
	seen := map[string]bool{}
	cur := start
	for i := 0; i < len(ps); i++ {
		So(seen[cur.Key()], ShouldBeFalse)
		seen[cur.Key()] = true
		next, ok := c.RecipientOf(cur)
		So(ok, ShouldBeTrue)
		So(next.Equal(cur), ShouldBeFalse)
		cur = next
	}
	So(cur.Equal(start), ShouldBeTrue)
	So(len(seen), ShouldEqual, len(ps))
}

func TestEngine_Assign(t *testing.T) {
	Convey("Given an assignment engine", t, func() {
		ctx := context.Background()
		engine := assign.New()

		Convey("When three participants have no exclusions", func() {
			ps := people("Alice", "Bob", "Carol")
			res, err := engine.Assign(ctx, ps, nil)

			Convey("Then the result is a single 3-cycle", func() {
				So(err, ShouldBeNil)
				So(res.Cycle.Len(), ShouldEqual, 3)
				So(res.Attempts, ShouldEqual, 1)
				assertSingleCycle(res.Cycle, ps)
			})
		})

		Convey("When only two participants take part", func() {
			ps := people("Alice", "Bob")

			Convey("Then they always give to each other", func() {
				for i := 0; i < 20; i++ {
					res, err := engine.Assign(ctx, ps, model.Exclusions{})
					So(err, ShouldBeNil)
					r, _ := res.Cycle.RecipientOf(ps[0])
					So(r.Name, ShouldEqual, "Bob")
					r, _ = res.Cycle.RecipientOf(ps[1])
					So(r.Name, ShouldEqual, "Alice")
				}
			})
		})

		Convey("When exclusions constrain the draw", func() {
			ps := people("Alice", "Bob", "Carol", "Dave", "Eve", "Frank")
			excl := model.Exclusions{
				"Alice": {"Bob", "Carol"},
				"bob":   {"ALICE"},
				"Dave":  {"Eve", "Frank", "Carol"},
			}

			Convey("Then no drawn cycle ever contains a forbidden pair", func() {
				for i := 0; i < 200; i++ {
					res, err := engine.Assign(ctx, ps, excl)
					So(err, ShouldBeNil)
					assertSingleCycle(res.Cycle, ps)
					for _, a := range res.Cycle.Assignments() {
						for santa, banned := range excl {
							if model.NameKey(santa) != a.Santa.Key() {
								continue
							}
							for _, b := range banned {
								So(a.Recipient.Key(), ShouldNotEqual, model.NameKey(b))
							}
						}
					}
				}
			})
		})

		Convey("When the draw is seeded", func() {
			ps := people("Alice", "Bob", "Carol", "Dave", "Eve")
			a, errA := assign.New(assign.WithSeed(7, 11)).Assign(ctx, ps, nil)
			b, errB := assign.New(assign.WithSeed(7, 11)).Assign(ctx, ps, nil)

			Convey("Then the same seed yields the same cycle", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a.Cycle.Assignments(), ShouldResemble, b.Cycle.Assignments())
			})
		})
	})
}

func TestEngine_AssignRejectsBadInput(t *testing.T) {
	Convey("Given an engine that counts draws", t, func() {
		ctx := context.Background()
		draws := 0
		engine := assign.New(assign.WithShuffler(func(n int, swap func(i, j int)) { draws++ }))

		Convey("When one santa has every other participant excluded", func() {
			ps := people("Alice", "Bob", "Carol", "Dave")
			_, err := engine.Assign(ctx, ps, model.Exclusions{"Alice": {"Bob", "Carol", "Dave"}})

			Convey("Then it fails naming that santa without drawing", func() {
				var ce *model.ConfigError
				So(errors.As(err, &ce), ShouldBeTrue)
				So(errors.Is(err, model.ErrNoFeasibleRecipient), ShouldBeTrue)
				So(ce.Subject, ShouldEqual, "Alice")
				So(draws, ShouldEqual, 0)
			})
		})

		Convey("When an exclusion names an unknown santa", func() {
			_, err := engine.Assign(ctx, people("Alice", "Bob"), model.Exclusions{"Zed": {"Bob"}})

			Convey("Then it fails naming the unknown entry", func() {
				So(errors.Is(err, model.ErrUnknownSanta), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Zed")
				So(draws, ShouldEqual, 0)
			})
		})

		Convey("When an exclusion names an unknown recipient", func() {
			_, err := engine.Assign(ctx, people("Alice", "Bob", "Carol"), model.Exclusions{"Alice": {"Zed"}})

			Convey("Then it fails naming the entry and its santa", func() {
				So(errors.Is(err, model.ErrUnknownRecipient), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Zed")
				So(err.Error(), ShouldContainSubstring, "Alice")
			})
		})

		Convey("When a participant has a malformed email", func() {
			ps := people("Alice", "Bob")
			ps[1].Email = "bob-at-example.com"
			// The unknown santa would also fail; email checks must come first.
			_, err := engine.Assign(ctx, ps, model.Exclusions{"Zed": {"Bob"}})

			Convey("Then it fails naming the participant before exclusion checks", func() {
				var ce *model.ConfigError
				So(errors.As(err, &ce), ShouldBeTrue)
				So(errors.Is(err, model.ErrInvalidEmail), ShouldBeTrue)
				So(ce.Subject, ShouldEqual, "Bob")
			})
		})

		Convey("When two names differ only by case", func() {
			_, err := engine.Assign(ctx, people("Alice", "ALICE", "Bob"), nil)

			Convey("Then it reports a duplicate participant", func() {
				So(errors.Is(err, model.ErrDuplicateParticipant), ShouldBeTrue)
			})
		})

		Convey("When fewer than two participants are given", func() {
			_, err := engine.Assign(ctx, people("Alice"), nil)

			Convey("Then it reports too few participants", func() {
				So(errors.Is(err, model.ErrTooFewParticipants), ShouldBeTrue)
				So(draws, ShouldEqual, 0)
			})
		})

		Convey("When a santa only excludes itself", func() {
			_, err := assign.New().Assign(ctx, people("Alice", "Bob"), model.Exclusions{"Alice": {"alice"}})

			Convey("Then the self entry does not starve it", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestEngine_AssignUnsatisfiable(t *testing.T) {
	Convey("Given constraints that pass validation but admit no cycle", t, func() {
		ctx := context.Background()
		ps := people("Alice", "Bob", "Carol")
		// Every santa keeps one candidate, but Alice->Carol forces Carol->Bob->Alice.
		excl := model.Exclusions{"Alice": {"Bob"}, "Bob": {"Alice"}}

		Convey("When the attempt limit is set", func() {
			_, err := assign.New(assign.WithMaxAttempts(50)).Assign(ctx, ps, excl)

			Convey("Then the loop stops with an exhausted error", func() {
				So(errors.Is(err, model.ErrAttemptsExhausted), ShouldBeTrue)
				So(model.IsConfigError(err), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			draws := 0
			engine := assign.New(assign.WithShuffler(func(n int, swap func(i, j int)) {
				draws++
				if draws == 10 {
					cancel()
				}
			}))
			_, err := engine.Assign(cctx, ps, excl)

			Convey("Then the loop stops with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(draws, ShouldEqual, 10)
			})
		})
	})
}

func TestValidEmail(t *testing.T) {
	Convey("Given the email structure check", t, func() {
		valid := []string{
			"valid@email.com",
			"john+doe@email.com",
			"john.doe+lab777@some-where.com",
			"john.DOE+lab777@ABC-GO-NOW.AI",
			"valid@email.co.uk",
		}
		invalid := []string{
			"invalidemail.com",
			"invalid email here@email.com",
			"invalid-email@bad{}.com",
			"nobody@localhost",
			"",
		}

		Convey("Then well formed addresses pass", func() {
			for _, e := range valid {
				So(assign.ValidEmail(e), ShouldBeTrue)
			}
		})

		Convey("Then malformed addresses fail", func() {
			for _, e := range invalid {
				So(assign.ValidEmail(e), ShouldBeFalse)
			}
		})
	})
}
