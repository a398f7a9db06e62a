package runner

import "testing"

func TestJsonpathToJQDropsLeadingDollarAndDotPath(t *testing.T) {
	got, err := jsonpathToJQ("$.success")
	if err != nil {
		t.Fatal(err)
	}
	if got != ".success" {
		t.Errorf("expected .success, got %q", got)
	}
}

func TestJsonpathToJQBracketKey(t *testing.T) {
	got, err := jsonpathToJQ("$['statusCode']")
	if err != nil {
		t.Fatal(err)
	}
	if got != ".statusCode" {
		t.Errorf("expected .statusCode, got %q", got)
	}
}

func TestJsonpathToJQIndexAndWildcard(t *testing.T) {
	got, err := jsonpathToJQ("$.items[0].name")
	if err != nil {
		t.Fatal(err)
	}
	if got != ".items[0].name" {
		t.Errorf("expected .items[0].name, got %q", got)
	}

	got, err = jsonpathToJQ("$.items[*]")
	if err != nil {
		t.Fatal(err)
	}
	if got != ".items[]" {
		t.Errorf("expected .items[], got %q", got)
	}
}

func TestEvalJSONPathReturnsNoQueryResultWhenAbsent(t *testing.T) {
	doc := map[string]interface{}{"a": 1}
	_, err := evalJSONPath("$.missing", doc)
	if err == nil {
		t.Fatal("expected error")
	}
	qe, ok := err.(*QueryError)
	if !ok || qe.Kind != NoQueryResult {
		t.Fatalf("expected NoQueryResult, got %v", err)
	}
}

func TestEvalJSONPathReturnsFirstMatch(t *testing.T) {
	doc := map[string]interface{}{"success": true}
	v, err := evalJSONPath("$.success", doc)
	if err != nil {
		t.Fatal(err)
	}
	if v != true {
		t.Errorf("expected true, got %v", v)
	}
}
