package browser

import (
	"encoding/json"
	"fmt"

	"pagepilot/internal/domain"
)

// maxRawProbes bounds how many DOM nodes one scan reads. The snapshot keeps
// at most 100 qualifying elements, so scanning beyond a few thousand nodes
// only burns time on pathological pages.
const maxRawProbes = 3000

// probeJS walks the DOM in one evaluation and returns a JSON array of raw
// element probes. Visibility and enablement are read here, where layout is
// cheap; classification stays on the Go side.
var probeJS = `(function() {
  var keep = ["id", "role", "type", "class", "onclick", "tabindex",
              "aria-label", "value", "title", "alt"];
  var out = [];
  var nodes = document.querySelectorAll("*");
  var n = Math.min(nodes.length, ` + fmt.Sprint(maxRawProbes) + `);
  for (var i = 0; i < n; i++) {
    var el = nodes[i];
    var attrs = {};
    for (var k = 0; k < keep.length; k++) {
      var v = el.getAttribute(keep[k]);
      if (v !== null) attrs[keep[k]] = v;
    }
    if (!("onclick" in attrs) && typeof el.onclick === "function") {
      attrs["onclick"] = "handler";
    }
    if (!("value" in attrs) && typeof el.value === "string" && el.value !== "") {
      attrs["value"] = el.value;
    }
    var displayed = false;
    try {
      var rect = el.getBoundingClientRect();
      var style = window.getComputedStyle(el);
      displayed = rect.width > 0 && rect.height > 0 &&
        style.visibility !== "hidden" && style.display !== "none";
    } catch (e) {}
    var text = "";
    try { text = (el.innerText || "").slice(0, 200); } catch (e) {}
    out.push({
      tag: el.tagName.toLowerCase(),
      text: text,
      attrs: attrs,
      displayed: displayed,
      enabled: !el.disabled
    });
  }
  return JSON.stringify(out);
})()`

func decodeProbes(raw string) ([]domain.ElementProbe, error) {
	var probes []domain.ElementProbe
	if err := json.Unmarshal([]byte(raw), &probes); err != nil {
		return nil, fmt.Errorf("decode probes: %w", err)
	}
	return probes, nil
}

// locatorExprJS returns a JS expression evaluating to the element the
// locator points at, or null.
func locatorExprJS(loc domain.Locator) string {
	val, _ := json.Marshal(loc.Value)
	switch loc.Strategy {
	case domain.ByID:
		return fmt.Sprintf("document.getElementById(%s)", val)
	case domain.ByXPath:
		return fmt.Sprintf(
			"document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue",
			val)
	default:
		return fmt.Sprintf("document.querySelector(%s)", val)
	}
}

// clickJS dispatches a script click on the located element. Evaluates to
// true when the element was found.
func clickJS(loc domain.Locator) string {
	return fmt.Sprintf(`(function() {
  var el = %s;
  if (!el) return false;
  el.click();
  return true;
})()`, locatorExprJS(loc))
}

// selectOptionJS selects a <select> option matching opt by value or visible
// label and fires input/change events. Evaluates to true on success.
func selectOptionJS(loc domain.Locator, opt string) string {
	val, _ := json.Marshal(opt)
	return fmt.Sprintf(`(function() {
  var el = %s;
  if (!el || el.tagName.toLowerCase() !== "select") return false;
  var want = %s;
  for (var i = 0; i < el.options.length; i++) {
    var o = el.options[i];
    if (o.value === want || o.text.trim() === want) {
      el.selectedIndex = i;
      el.dispatchEvent(new Event("input", { bubbles: true }));
      el.dispatchEvent(new Event("change", { bubbles: true }));
      return true;
    }
  }
  return false;
})()`, locatorExprJS(loc), val)
}

// visibleJS evaluates to true when the located element exists and has a
// nonzero, unhidden box.
func visibleJS(loc domain.Locator) string {
	return fmt.Sprintf(`(function() {
  var el = %s;
  if (!el) return false;
  var rect = el.getBoundingClientRect();
  var style = window.getComputedStyle(el);
  return rect.width > 0 && rect.height > 0 &&
    style.visibility !== "hidden" && style.display !== "none";
})()`, locatorExprJS(loc))
}

// textPresentJS evaluates to true when the page body text contains needle.
func textPresentJS(needle string) string {
	val, _ := json.Marshal(needle)
	return fmt.Sprintf(`(document.body && document.body.innerText || "").includes(%s)`, val)
}
