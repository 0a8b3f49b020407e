package services

import (
	"context"
	"errors"
	"testing"

	"vesselcost/testhelpers"
)

func TestApplyProjectPricing_UpdatesMatchingLines(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "询价测试", 8, 15)
	eq := testhelpers.CreateTestEquipment(t, app, proj.Id, "E-1201", "换热器")
	testhelpers.CreateTestMaterial(t, app, eq.Id, "筒体", "Q345R", 2000, 1, 0)
	testhelpers.CreateTestMaterial(t, app, eq.Id, "垫片", "石墨", 1, 4, 3)

	client := &fakeVisionClient{
		prices: map[string]float64{"Q345R": 5.2},
	}

	updated, err := ApplyProjectPricing(context.Background(), app, client, proj.Id)
	if err != nil {
		t.Fatalf("ApplyProjectPricing() error: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	if len(client.priceCalled) != 1 {
		t.Fatalf("lookup called %d times, want 1", len(client.priceCalled))
	}
	names := client.priceCalled[0]
	if len(names) != 2 {
		t.Errorf("lookup payload = %v, want the 2 distinct grades", names)
	}

	lines, _ := app.FindRecordsByFilter("materials",
		"equipment = {:e}", "", 0, 0, map[string]any{"e": eq.Id})
	for _, l := range lines {
		switch l.GetString("material") {
		case "Q345R":
			if l.GetFloat("unit_price") != 5.2 {
				t.Errorf("Q345R price = %v, want 5.2", l.GetFloat("unit_price"))
			}
		case "石墨":
			if l.GetFloat("unit_price") != 3 {
				t.Errorf("石墨 price = %v, unmatched line must keep its price", l.GetFloat("unit_price"))
			}
		}
	}
}

func TestApplyProjectPricing_LookupFailureIsSoft(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "询价失败", 0, 0)
	eq := testhelpers.CreateTestEquipment(t, app, proj.Id, "E-1", "设备")
	testhelpers.CreateTestMaterial(t, app, eq.Id, "筒体", "Q345R", 100, 1, 4)

	client := &fakeVisionClient{priceErr: errors.New("service down")}

	updated, err := ApplyProjectPricing(context.Background(), app, client, proj.Id)
	if err != nil {
		t.Fatalf("lookup failure must not fail the flow: %v", err)
	}
	if updated != 0 {
		t.Errorf("updated = %d, want 0", updated)
	}

	lines, _ := app.FindRecordsByFilter("materials",
		"equipment = {:e}", "", 0, 0, map[string]any{"e": eq.Id})
	if lines[0].GetFloat("unit_price") != 4 {
		t.Errorf("price = %v, want unchanged 4", lines[0].GetFloat("unit_price"))
	}
}

func TestApplyProjectPricing_NoMaterials(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "空项目", 0, 0)

	client := &fakeVisionClient{}
	updated, err := ApplyProjectPricing(context.Background(), app, client, proj.Id)
	if err != nil {
		t.Fatalf("ApplyProjectPricing() error: %v", err)
	}
	if updated != 0 {
		t.Errorf("updated = %d, want 0", updated)
	}
	if len(client.priceCalled) != 0 {
		t.Error("lookup must not be called for an empty project")
	}
}
