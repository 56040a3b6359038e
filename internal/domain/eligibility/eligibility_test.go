package eligibility_test

import (
	"testing"
	"time"

	eligibility "github.com/okian/advientea/internal/domain/eligibility"
	release "github.com/okian/advientea/internal/domain/release"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGates(t *testing.T) {
	Convey("Given a gate over a season-2025 oracle", t, func() {
		zone := time.FixedZone("CET", 3600)
		oracle := release.NewOracle(2025,
			release.WithLocation(zone),
			release.WithPersonRevealDay(28),
		)
		gate := eligibility.NewGate(oracle)

		at := func(day, h int) time.Time {
			return time.Date(2025, time.December, day, h, 0, 0, 0, zone)
		}
		open := eligibility.Context{
			Day:         5,
			Year:        2025,
			OwnerUserID: "owner-1",
			TeaExists:   true,
		}

		Convey("When all checks pass for a non-owner in the morning", func() {
			So(gate.CanGuessTeaAttributes(open, "user-2", at(5, 9)), ShouldBeTrue)
			So(gate.CanGuessPersonName(open, "user-2", at(5, 9)), ShouldBeTrue)
		})

		Convey("When the day has no tea yet", func() {
			noTea := open
			noTea.TeaExists = false

			Convey("Then both gates fail closed", func() {
				So(gate.CanGuessTeaAttributes(noTea, "user-2", at(5, 9)), ShouldBeFalse)
				So(gate.CanGuessPersonName(noTea, "user-2", at(5, 9)), ShouldBeFalse)
			})
		})

		Convey("When the requester is the day's assigned owner", func() {
			Convey("Then neither gate ever opens, regardless of timing", func() {
				So(gate.CanGuessTeaAttributes(open, "owner-1", at(5, 9)), ShouldBeFalse)
				So(gate.CanGuessPersonName(open, "owner-1", at(5, 9)), ShouldBeFalse)
				So(gate.CanGuessTeaAttributes(open, "owner-1", at(5, 0)), ShouldBeFalse)
				So(gate.CanGuessPersonName(open, "owner-1", at(12, 9)), ShouldBeFalse)
			})
		})

		Convey("When the day's owner is a guest placeholder", func() {
			guest := open
			guest.OwnerUserID = ""
			guest.OwnerIsGuest = true

			Convey("Then no authenticated user is blocked", func() {
				So(gate.CanGuessTeaAttributes(guest, "user-2", at(5, 9)), ShouldBeTrue)
				So(gate.CanGuessPersonName(guest, "owner-1", at(5, 9)), ShouldBeTrue)
			})
		})

		Convey("When the day has no assigned owner at all", func() {
			unassigned := open
			unassigned.OwnerUserID = ""

			Convey("Then nobody is blocked by the owner check", func() {
				So(gate.CanGuessTeaAttributes(unassigned, "user-2", at(5, 9)), ShouldBeTrue)
			})
		})

		Convey("When the day is still in the future", func() {
			Convey("Then guessing is never allowed", func() {
				So(gate.CanGuessTeaAttributes(open, "user-2", at(4, 23)), ShouldBeFalse)
				So(gate.CanGuessPersonName(open, "user-2", at(4, 23)), ShouldBeFalse)
			})

			Convey("But the first minute of the day itself counts", func() {
				So(gate.CanGuessTeaAttributes(open, "user-2", at(5, 0)), ShouldBeTrue)
			})
		})

		Convey("When the tea details have been released", func() {
			Convey("Then the tea gate closes but the person gate stays open", func() {
				So(gate.CanGuessTeaAttributes(open, "user-2", at(5, 18)), ShouldBeFalse)
				So(gate.CanGuessPersonName(open, "user-2", at(5, 18)), ShouldBeTrue)
			})
		})

		Convey("When the person names have been revealed for the season", func() {
			Convey("Then the person gate closes", func() {
				So(gate.CanGuessPersonName(open, "user-2", at(28, 9)), ShouldBeFalse)
			})

			Convey("And the tea gate for that day is closed too, since the day passed", func() {
				So(gate.CanGuessTeaAttributes(open, "user-2", at(28, 9)), ShouldBeFalse)
			})
		})

		Convey("When guessing a past day whose tea is long public", func() {
			late := eligibility.Context{Day: 3, Year: 2025, TeaExists: true}

			Convey("Then the tea gate is closed but the person gate holds until reveal", func() {
				So(gate.CanGuessTeaAttributes(late, "user-2", at(10, 9)), ShouldBeFalse)
				So(gate.CanGuessPersonName(late, "user-2", at(10, 9)), ShouldBeTrue)
			})
		})
	})
}
