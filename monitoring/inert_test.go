// Copyright 2026 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package monitoring

import "testing"

func TestInertCounter(t *testing.T) {
	c := InertMetricFactory{}.NewCounter("submissions", "help", "status")
	c.Inc("ok")
	c.Add(2, "ok")
	c.Inc("unknown_root")
	// Wrong label count is logged and ignored.
	c.Inc()

	if got, want := c.Value("ok"), 3.0; got != want {
		t.Errorf("Value(ok)=%v, want %v", got, want)
	}
	if got, want := c.Value("unknown_root"), 1.0; got != want {
		t.Errorf("Value(unknown_root)=%v, want %v", got, want)
	}
	if got, want := c.Value("missing"), 0.0; got != want {
		t.Errorf("Value(missing)=%v, want %v", got, want)
	}
}

func TestInertGauge(t *testing.T) {
	g := InertMetricFactory{}.NewGauge("roots", "help")
	g.Set(5)
	g.Dec()
	g.Add(0.5)
	if got, want := g.Value(), 4.5; got != want {
		t.Errorf("Value()=%v, want %v", got, want)
	}
}

func TestInertHistogram(t *testing.T) {
	h := InertMetricFactory{}.NewHistogramWithBuckets("latency", "help", LatencyBuckets(), "op")
	h.Observe(1.5, "get")
	h.Observe(2.5, "get")
	count, sum := h.Info("get")
	if count != 2 || sum != 4.0 {
		t.Errorf("Info(get)=(%d, %v), want (2, 4)", count, sum)
	}
}

func TestOrInert(t *testing.T) {
	if _, ok := OrInert(nil).(InertMetricFactory); !ok {
		t.Errorf("OrInert(nil) did not return an InertMetricFactory")
	}
	var mf MetricFactory = InertMetricFactory{}
	if got := OrInert(mf); got != mf {
		t.Errorf("OrInert(mf)=%v, want %v", got, mf)
	}
}
