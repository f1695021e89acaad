// Package uitest provides testing utilities for the Bubble Tea models.
//
// It combines a [teatest] wrapper with helpers that build mouse and key
// messages, and an ANSI verifier for checking the background colors of rendered
// cells:
//
//	func TestPicker(t *testing.T) {
//	    t.Parallel()
//	    uitest.SetupColorProfile()
//
//	    tm := uitest.NewTestModel(t, model, uitest.Compact)
//	    tm.Send(uitest.LeftPress(10, 5))
//	    tm.Send(uitest.Release(10, 5))
//	    final := uitest.FinalModel(t, tm, time.Second)
//	}
package uitest
