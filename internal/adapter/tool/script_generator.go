package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"pagepilot/internal/domain"
)

// scriptFormats are the supported generate_script output formats.
var scriptFormats = []string{
	"pytest", "unittest", "selenium_python", "robot_framework",
	"playwright", "webdriverio", "selenium_java", "selenium_js",
}

// actionParams is the union of recorded parameter fields the generators
// read. Unknown fields in an entry are ignored.
type actionParams struct {
	URL     string  `json:"url"`
	Ref     string  `json:"ref"`
	Text    string  `json:"text"`
	Option  string  `json:"option"`
	Key     string  `json:"key"`
	Path    string  `json:"path"`
	Seconds float64 `json:"seconds"`
}

func decodeActionParams(raw json.RawMessage) actionParams {
	var p actionParams
	_ = json.Unmarshal(raw, &p)
	return p
}

// refSelector is the attribute selector generated scripts use to address a
// recorded element reference.
func refSelector(ref string) string {
	return fmt.Sprintf("[data-ref='%s']", ref)
}

// GenerateScript renders the recorded actions as a test script in the given
// format, one statement per recorded action in invocation order.
func GenerateScript(entries []domain.ActionEntry, format, testName string, includeSetup bool) (string, error) {
	if testName == "" {
		testName = "test_recorded_scenario"
	}
	switch strings.ToLower(format) {
	case "pytest":
		return genPytest(entries, testName, includeSetup), nil
	case "unittest":
		return genUnittest(entries, testName, includeSetup), nil
	case "selenium_python":
		return genSeleniumPython(entries, includeSetup), nil
	case "robot_framework":
		return genRobotFramework(entries, testName, includeSetup), nil
	case "playwright":
		return genPlaywright(entries, testName, includeSetup), nil
	case "webdriverio":
		return genWebdriverIO(entries, testName), nil
	case "selenium_java":
		return genSeleniumJava(entries, testName), nil
	case "selenium_js":
		return genSeleniumJS(entries, testName), nil
	default:
		return "", domain.NewDomainError("generate_script", domain.ErrInvalidInput,
			fmt.Sprintf("unsupported format %q (want: %s)", format, strings.Join(scriptFormats, ", ")))
	}
}

func titleWords(testName string) string {
	words := strings.Split(testName, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func camelName(testName string) string {
	var b strings.Builder
	for _, w := range strings.Split(testName, "_") {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return b.String()
}

func genPytest(entries []domain.ActionEntry, testName string, setup bool) string {
	var lines []string
	if setup {
		lines = append(lines,
			"import pytest",
			"from selenium import webdriver",
			"from selenium.webdriver.common.by import By",
			"from selenium.webdriver.common.keys import Keys",
			"import time",
			"",
			"@pytest.fixture",
			"def driver():",
			"    driver = webdriver.Chrome()",
			"    driver.maximize_window()",
			"    yield driver",
			"    driver.quit()",
			"",
			"",
		)
	}
	lines = append(lines,
		fmt.Sprintf("def %s(driver):", testName),
		`    """Generated from recorded browser actions."""`,
	)
	lines = append(lines, seleniumPythonBody(entries, "    ")...)
	return strings.Join(lines, "\n")
}

func genUnittest(entries []domain.ActionEntry, testName string, setup bool) string {
	var lines []string
	if setup {
		lines = append(lines,
			"import unittest",
			"from selenium import webdriver",
			"from selenium.webdriver.common.by import By",
			"from selenium.webdriver.common.keys import Keys",
			"import time",
			"",
			"",
		)
	}
	lines = append(lines,
		fmt.Sprintf("class %s(unittest.TestCase):", camelName(testName)),
		`    """Generated from recorded browser actions."""`,
		"",
		"    def setUp(self):",
		"        self.driver = webdriver.Chrome()",
		"        self.driver.maximize_window()",
		"",
		"    def tearDown(self):",
		"        self.driver.quit()",
		"",
		fmt.Sprintf("    def %s(self):", testName),
		"        driver = self.driver",
	)
	lines = append(lines, seleniumPythonBody(entries, "        ")...)
	if setup {
		lines = append(lines, "", "", "if __name__ == '__main__':", "    unittest.main()")
	}
	return strings.Join(lines, "\n")
}

func genSeleniumPython(entries []domain.ActionEntry, setup bool) string {
	var lines []string
	indent := ""
	if setup {
		lines = append(lines,
			"from selenium import webdriver",
			"from selenium.webdriver.common.by import By",
			"from selenium.webdriver.common.keys import Keys",
			"import time",
			"",
			"# Generated from recorded browser actions",
			"driver = webdriver.Chrome()",
			"driver.maximize_window()",
			"",
			"try:",
		)
		indent = "    "
	}
	lines = append(lines, seleniumPythonBody(entries, indent)...)
	if setup {
		lines = append(lines, "", "finally:", "    driver.quit()")
	}
	return strings.Join(lines, "\n")
}

func seleniumPythonBody(entries []domain.ActionEntry, indent string) []string {
	var lines []string
	for _, e := range entries {
		p := decodeActionParams(e.Params)
		switch e.Tool {
		case "navigate_to":
			lines = append(lines, fmt.Sprintf("%sdriver.get(%q)", indent, p.URL))
		case "click_element":
			lines = append(lines, fmt.Sprintf("%sdriver.find_element(By.CSS_SELECTOR, %q).click()", indent, refSelector(p.Ref)))
		case "type_text":
			lines = append(lines, fmt.Sprintf("%sdriver.find_element(By.CSS_SELECTOR, %q).send_keys(%q)", indent, refSelector(p.Ref), p.Text))
		case "select_option":
			lines = append(lines, fmt.Sprintf("%s# select %q in %s", indent, p.Option, refSelector(p.Ref)))
		case "press_key":
			lines = append(lines, fmt.Sprintf("%sdriver.switch_to.active_element.send_keys(Keys.%s)", indent, strings.ToUpper(p.Key)))
		case "take_screenshot":
			lines = append(lines, fmt.Sprintf("%sdriver.save_screenshot(%q)", indent, p.Path))
		case "wait_for":
			secs := p.Seconds
			if secs <= 0 {
				secs = 5
			}
			lines = append(lines, fmt.Sprintf("%stime.sleep(%g)", indent, secs))
		default:
			lines = append(lines, fmt.Sprintf("%s# unsupported action: %s %s", indent, e.Tool, compactParams(e.Params)))
		}
	}
	return lines
}

func genRobotFramework(entries []domain.ActionEntry, testName string, setup bool) string {
	var lines []string
	if setup {
		lines = append(lines,
			"*** Settings ***",
			"Documentation    Generated from recorded browser actions",
			"Library          SeleniumLibrary",
			"Test Setup       Open Browser To Test Page",
			"Test Teardown    Close Browser",
			"",
			"*** Variables ***",
			"${BROWSER}        Chrome",
			"${TIMEOUT}       10s",
			"",
			"*** Test Cases ***",
		)
	}
	lines = append(lines,
		titleWords(testName),
		"    [Documentation]    Generated test scenario",
	)
	for _, e := range entries {
		p := decodeActionParams(e.Params)
		switch e.Tool {
		case "navigate_to":
			lines = append(lines, fmt.Sprintf("    Go To    %s", p.URL))
		case "click_element":
			lines = append(lines, fmt.Sprintf("    Click Element    css=%s", refSelector(p.Ref)))
		case "type_text":
			lines = append(lines, fmt.Sprintf("    Input Text    css=%s    %s", refSelector(p.Ref), p.Text))
		case "press_key":
			lines = append(lines, fmt.Sprintf("    Press Keys    None    %s", strings.ToUpper(p.Key)))
		case "take_screenshot":
			lines = append(lines, fmt.Sprintf("    Capture Page Screenshot    %s", p.Path))
		default:
			lines = append(lines, fmt.Sprintf("    Comment    unsupported action: %s", e.Tool))
		}
	}
	if setup {
		lines = append(lines,
			"",
			"*** Keywords ***",
			"Open Browser To Test Page",
			"    Open Browser    about:blank    ${BROWSER}",
			"    Maximize Browser Window",
			"    Set Selenium Timeout    ${TIMEOUT}",
		)
	}
	return strings.Join(lines, "\n")
}

func genPlaywright(entries []domain.ActionEntry, testName string, setup bool) string {
	var lines []string
	if setup {
		lines = append(lines,
			"import asyncio",
			"from playwright.async_api import async_playwright",
			"",
			"",
		)
	}
	lines = append(lines,
		fmt.Sprintf("async def %s():", testName),
		`    """Generated from recorded browser actions."""`,
	)
	indent := "    "
	if setup {
		lines = append(lines,
			"    async with async_playwright() as p:",
			"        browser = await p.chromium.launch()",
			"        page = await browser.new_page()",
			"",
			"        try:",
		)
		indent = "            "
	}
	for _, e := range entries {
		p := decodeActionParams(e.Params)
		switch e.Tool {
		case "navigate_to":
			lines = append(lines, fmt.Sprintf("%sawait page.goto(%q)", indent, p.URL))
		case "click_element":
			lines = append(lines, fmt.Sprintf("%sawait page.click(%q)", indent, refSelector(p.Ref)))
		case "type_text":
			lines = append(lines, fmt.Sprintf("%sawait page.fill(%q, %q)", indent, refSelector(p.Ref), p.Text))
		case "press_key":
			lines = append(lines, fmt.Sprintf("%sawait page.keyboard.press(%q)", indent, p.Key))
		case "take_screenshot":
			lines = append(lines, fmt.Sprintf("%sawait page.screenshot(path=%q)", indent, p.Path))
		default:
			lines = append(lines, fmt.Sprintf("%s# unsupported action: %s", indent, e.Tool))
		}
	}
	if setup {
		lines = append(lines,
			"",
			"        finally:",
			"            await browser.close()",
			"",
			"",
			"if __name__ == '__main__':",
			fmt.Sprintf("    asyncio.run(%s())", testName),
		)
	}
	return strings.Join(lines, "\n")
}

func genWebdriverIO(entries []domain.ActionEntry, testName string) string {
	lines := []string{
		"describe('Generated Test Suite', () => {",
		fmt.Sprintf("    it('%s', async () => {", strings.ReplaceAll(testName, "_", " ")),
	}
	for _, e := range entries {
		p := decodeActionParams(e.Params)
		switch e.Tool {
		case "navigate_to":
			lines = append(lines, fmt.Sprintf("        await browser.url(%q);", p.URL))
		case "click_element":
			lines = append(lines, fmt.Sprintf("        await $(%q).click();", refSelector(p.Ref)))
		case "type_text":
			lines = append(lines, fmt.Sprintf("        await $(%q).setValue(%q);", refSelector(p.Ref), p.Text))
		case "take_screenshot":
			lines = append(lines, fmt.Sprintf("        await browser.saveScreenshot(%q);", p.Path))
		default:
			lines = append(lines, fmt.Sprintf("        // unsupported action: %s", e.Tool))
		}
	}
	lines = append(lines, "    });", "});")
	return strings.Join(lines, "\n")
}

func genSeleniumJava(entries []domain.ActionEntry, testName string) string {
	lines := []string{
		"import org.openqa.selenium.By;",
		"import org.openqa.selenium.WebDriver;",
		"import org.openqa.selenium.chrome.ChromeDriver;",
		"",
		fmt.Sprintf("public class %s {", camelName(testName)),
		"    // Generated from recorded browser actions",
		"    public static void main(String[] args) {",
		"        WebDriver driver = new ChromeDriver();",
		"",
		"        try {",
	}
	for _, e := range entries {
		p := decodeActionParams(e.Params)
		switch e.Tool {
		case "navigate_to":
			lines = append(lines, fmt.Sprintf("            driver.get(%q);", p.URL))
		case "click_element":
			lines = append(lines, fmt.Sprintf("            driver.findElement(By.cssSelector(%q)).click();", refSelector(p.Ref)))
		case "type_text":
			lines = append(lines, fmt.Sprintf("            driver.findElement(By.cssSelector(%q)).sendKeys(%q);", refSelector(p.Ref), p.Text))
		default:
			lines = append(lines, fmt.Sprintf("            // unsupported action: %s", e.Tool))
		}
	}
	lines = append(lines,
		"        } finally {",
		"            driver.quit();",
		"        }",
		"    }",
		"}",
	)
	return strings.Join(lines, "\n")
}

func genSeleniumJS(entries []domain.ActionEntry, testName string) string {
	lines := []string{
		"const { Builder, By } = require('selenium-webdriver');",
		"",
		fmt.Sprintf("async function %s() {", testName),
		"    // Generated from recorded browser actions",
		"    let driver = await new Builder().forBrowser('chrome').build();",
		"",
		"    try {",
	}
	for _, e := range entries {
		p := decodeActionParams(e.Params)
		switch e.Tool {
		case "navigate_to":
			lines = append(lines, fmt.Sprintf("        await driver.get(%q);", p.URL))
		case "click_element":
			lines = append(lines, fmt.Sprintf("        await driver.findElement(By.css(%q)).click();", refSelector(p.Ref)))
		case "type_text":
			lines = append(lines, fmt.Sprintf("        await driver.findElement(By.css(%q)).sendKeys(%q);", refSelector(p.Ref), p.Text))
		default:
			lines = append(lines, fmt.Sprintf("        // unsupported action: %s", e.Tool))
		}
	}
	lines = append(lines,
		"    } finally {",
		"        await driver.quit();",
		"    }",
		"}",
		"",
		fmt.Sprintf("%s().catch(console.error);", testName),
	)
	return strings.Join(lines, "\n")
}

func compactParams(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
