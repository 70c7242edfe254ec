package world

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/samdwyer/sewerband/internal/grid"
)

// parseTerrain reads '#' as wall, '.' as floor and '~' as pool.
func parseTerrain(rows ...string) *grid.Grid[terrain] {
	size := grid.Size{Width: len(rows[0]), Height: len(rows)}
	return grid.NewFunc(size, func(c grid.Coord) terrain {
		switch rows[c.Y][c.X] {
		case '.':
			return terrainFloor
		case '~':
			return terrainPool
		default:
			return terrainWall
		}
	})
}

func parseOpen(rows ...string) *grid.Grid[bool] {
	size := grid.Size{Width: len(rows[0]), Height: len(rows)}
	return grid.NewFunc(size, func(c grid.Coord) bool { return rows[c.Y][c.X] == '.' })
}

func parseCells(rows ...string) *grid.Grid[Cell] {
	return grid.Map(parseTerrain(rows...), func(_ grid.Coord, t terrain) Cell { return t.cell() })
}

// highRand never rolls zero and never shuffles.
type highRand struct {
	calls int
}

func (r *highRand) Intn(n int) int {
	r.calls++
	return n - 1
}

func (r *highRand) Shuffle(int, func(i, j int)) {}

func countTerrain(g *grid.Grid[terrain], t terrain) int {
	return g.Count(func(v terrain) bool { return v == t })
}

func TestShrinkErodesFromOutside(t *testing.T) {
	open := parseOpen(
		"#######",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#######",
	)
	pools := findPools(open)
	if pools.count != 1 {
		t.Fatalf("Expected 1 pool, got %d", pools.count)
	}

	pools.shrink(0, 1)
	if n := pools.ids.Count(func(id int) bool { return id == 0 }); n != 9 {
		t.Errorf("After 1 step expected 9 pool cells, got %d", n)
	}
	pools.shrink(0, 1)
	if !pools.in(grid.Coord{X: 3, Y: 3}) {
		t.Error("Centre cell should survive 2 steps")
	}
	if n := pools.ids.Count(func(id int) bool { return id == 0 }); n != 1 {
		t.Errorf("After 2 steps expected 1 pool cell, got %d", n)
	}
}

func TestShrinkIgnoresMapEdge(t *testing.T) {
	pools := findPools(parseOpen("....", "....", "...."))
	pools.shrink(0, 3)
	if n := pools.ids.Count(func(id int) bool { return id == 0 }); n != 12 {
		t.Errorf("Pool filling the map should not erode, got %d cells", n)
	}
}

func TestRemoveSharpEdges(t *testing.T) {
	open := parseOpen(
		"#####",
		"#...#",
		"#....",
		"#...#",
		"#####",
	)
	pools := findPools(open)
	pools.removeSharpEdges()

	if pools.in(grid.Coord{X: 4, Y: 2}) {
		t.Error("Spur cell (4,2) should be removed")
	}
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			if !pools.in(grid.Coord{X: x, Y: y}) {
				t.Errorf("Block cell (%d,%d) should remain", x, y)
			}
		}
	}

	line := findPools(parseOpen("...."))
	line.removeSharpEdges()
	if n := line.ids.Count(func(id int) bool { return id != grid.Unlabelled }); n != 0 {
		t.Errorf("One-row pool should vanish, %d cells left", n)
	}
}

func TestRemoveSmallPools(t *testing.T) {
	open := parseOpen(
		"...#..",
		"...#..",
		"...###",
	)
	pools := findPools(open)
	pools.removeSmallPools(8)

	if !pools.in(grid.Coord{X: 0, Y: 0}) {
		t.Error("Pool of 9 cells should remain")
	}
	if pools.in(grid.Coord{X: 4, Y: 0}) {
		t.Error("Pool of 4 cells should be removed")
	}
}

func TestCarvePoolsMapsTerrain(t *testing.T) {
	open := parseOpen(
		"##########",
		"#........#",
		"#........#",
		"#........#",
		"#........#",
		"#........#",
		"#........#",
		"##########",
	)
	params := DefaultParams()
	params.ShrinkMin, params.ShrinkMax = 1, 1
	g := carvePools(open, rand.New(rand.NewSource(1)), params)

	if got := countTerrain(g, terrainWall); got != open.Count(func(o bool) bool { return !o }) {
		t.Errorf("Closed cells should become wall, got %d walls", got)
	}
	if got := countTerrain(g, terrainPool); got != 24 {
		t.Errorf("Expected 6x4 pool after one shrink step, got %d", got)
	}
	if g.At(grid.Coord{X: 1, Y: 1}) != terrainFloor {
		t.Error("Eroded cell should be floor")
	}
}

func TestAddOuterWall(t *testing.T) {
	g := parseTerrain(
		"....",
		"~...",
		"....",
	)
	addOuterWall(g)

	for _, c := range []grid.Coord{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 2, Y: 2}} {
		if g.At(c) != terrainWall {
			t.Errorf("Border cell %v should be wall", c)
		}
	}
	if g.At(grid.Coord{X: 0, Y: 1}) != terrainPool {
		t.Error("Border pool should stay pool")
	}
	if g.At(grid.Coord{X: 1, Y: 1}) != terrainFloor {
		t.Error("Interior floor should stay floor")
	}
}

func TestRemoveBoringSpace(t *testing.T) {
	corridor := parseTerrain(
		"#####",
		"#...#",
		"#####",
	)
	removeBoringSpace(corridor)
	if n := countTerrain(corridor, terrainFloor); n != 0 {
		t.Errorf("One-wide corridor should be filled, %d floor left", n)
	}

	room := parseTerrain(
		"#####",
		"#..##",
		"#...#",
		"#..##",
		"#####",
	)
	removeBoringSpace(room)
	if room.At(grid.Coord{X: 3, Y: 2}) != terrainWall {
		t.Error("Dead-end cell (3,2) should be walled")
	}
	if n := countTerrain(room, terrainFloor); n != 6 {
		t.Errorf("Expected 6 floor cells to remain, got %d", n)
	}
}

func TestClassify(t *testing.T) {
	cells := classify(parseTerrain(
		"###~###",
		"#..~..#",
		"#..~..#",
		"###~###",
	))

	left, right := cells.At(grid.Coord{X: 1, Y: 1}), cells.At(grid.Coord{X: 5, Y: 1})
	if left.room != right.room {
		t.Errorf("Pool should not split rooms: %d != %d", left.room, right.room)
	}
	if left.body == right.body {
		t.Error("Pool should split floor into two bodies")
	}

	pool := cells.At(grid.Coord{X: 3, Y: 1})
	if pool.room != left.room || pool.body != grid.Unlabelled {
		t.Errorf("Pool cell should have a room and no body, got room=%d body=%d", pool.room, pool.body)
	}
	wall := cells.At(grid.Coord{X: 0, Y: 0})
	if wall.room != grid.Unlabelled || wall.body != grid.Unlabelled {
		t.Errorf("Wall cell should be unlabelled, got room=%d body=%d", wall.room, wall.body)
	}
}

func TestFindBridges(t *testing.T) {
	cells := classify(parseTerrain(
		"###~###",
		"#..~..#",
		"#..~..#",
		"###~###",
	))
	bridges := findBridges(cells)

	pairs := bridges.pairs()
	if len(pairs) != 1 {
		t.Fatalf("Expected 1 body pair, got %d", len(pairs))
	}
	group := bridges.groups[pairs[0]]
	if len(group) != 1 {
		t.Fatalf("Longer half should be dropped, %d candidates left", len(group))
	}
	if !slices.Equal(group[0].coords, []grid.Coord{{X: 3, Y: 1}}) {
		t.Errorf("Unexpected bridge coords %v", group[0].coords)
	}

	chosen := bridges.choose(rand.New(rand.NewSource(1)))
	if len(chosen) != 1 {
		t.Errorf("Expected one bridge per pair, got %d", len(chosen))
	}
}

func TestBridgeRunBrokenByWall(t *testing.T) {
	cells := classify(parseTerrain(
		"#######",
		"#.~#~.#",
		"#######",
	))
	if got := scanBridges(cells, grid.AxisX); len(got) != 0 {
		t.Errorf("Wall should break the run, got %d candidates", len(got))
	}
}

func TestFindBridgesKeepsShorterHalf(t *testing.T) {
	cells := classify(parseTerrain(
		"###~~###",
		"#..~~..#",
		"#...~..#",
		"#..~~..#",
		"###~~###",
	))
	group := findBridges(cells).groups[newBodyPair(0, 1)]
	if len(group) != 2 {
		t.Fatalf("Expected 2 of 3 candidates kept, got %d", len(group))
	}
	if len(group[0].coords) != 1 {
		t.Errorf("Shortest candidate should sort first, got length %d", len(group[0].coords))
	}
}

func TestFindDoors(t *testing.T) {
	cells := classify(parseTerrain(
		"#######",
		"#..#..#",
		"#..#..#",
		"#######",
	))
	doors := findDoors(cells)
	if len(doors) != 1 {
		t.Fatalf("Expected 1 door candidate, got %d", len(doors))
	}
	d := doors[0]
	if d.axis != grid.AxisY {
		t.Errorf("Expected candidate along Y, got %v", d.axis)
	}
	if !slices.Equal(d.coords, []grid.Coord{{X: 3, Y: 1}, {X: 3, Y: 2}}) {
		t.Errorf("Unexpected door coords %v", d.coords)
	}
	if d.low == d.high {
		t.Error("Door should join two rooms")
	}

	c := d.doorCoord(rand.New(rand.NewSource(1)))
	if !slices.Contains(d.coords, c) {
		t.Errorf("Door coord %v not in candidate", c)
	}
}

func TestDoorCoordAvoidsEnds(t *testing.T) {
	d := doorCandidate{}
	for x := 0; x < 8; x++ {
		d.coords = append(d.coords, grid.Coord{X: x})
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		c := d.doorCoord(rng)
		if c.X < 2 || c.X > 4 {
			t.Fatalf("Door at %d should be in the middle range [2,4]", c.X)
		}
	}

	single := doorCandidate{coords: []grid.Coord{{X: 4, Y: 4}}}
	if c := single.doorCoord(rng); c != (grid.Coord{X: 4, Y: 4}) {
		t.Errorf("Single-cell candidate should yield its cell, got %v", c)
	}
}

func TestSpanningTreeConnectsAllRooms(t *testing.T) {
	candidates := []doorCandidate{
		{low: 0, high: 1}, {low: 1, high: 2}, {low: 2, high: 3},
		{low: 0, high: 1}, {low: 3, high: 0}, {low: 1, high: 3},
		{low: 2, high: 4}, {low: 4, high: 0},
	}
	for seed := int64(1); seed <= 20; seed++ {
		tree := spanningTree(candidates, rand.New(rand.NewSource(seed)))
		if tree.Size() != 4 {
			t.Fatalf("Seed %d: tree over 5 rooms should have 4 edges, got %d", seed, tree.Size())
		}

		parent := []int{0, 1, 2, 3, 4}
		var find func(int) int
		find = func(x int) int {
			for parent[x] != x {
				x = parent[x]
			}
			return x
		}
		tree.Each(func(i int) {
			parent[find(candidates[i].low)] = find(candidates[i].high)
		})
		for room := 1; room < 5; room++ {
			if find(room) != find(0) {
				t.Errorf("Seed %d: room %d not connected", seed, room)
			}
		}
	}
}

func TestChooseDoors(t *testing.T) {
	candidates := []doorCandidate{
		{low: 0, high: 1}, {low: 1, high: 2}, {low: 2, high: 3},
		{low: 0, high: 1}, {low: 3, high: 0}, {low: 1, high: 3},
		{low: 0, high: 2}, {low: 2, high: 1},
	}
	chosen := chooseDoors(candidates, rand.New(rand.NewSource(9)), 4)

	// 3 tree edges plus a quarter of the other 5.
	if len(chosen) != 4 {
		t.Errorf("Expected 4 doors, got %d", len(chosen))
	}
	if !slices.IsSorted(chosen) {
		t.Errorf("Chosen indices should be ascending: %v", chosen)
	}
}

func TestChooseDoorsWithoutCandidates(t *testing.T) {
	if got := chooseDoors(nil, rand.New(rand.NewSource(1)), 4); len(got) != 0 {
		t.Errorf("Expected no doors, got %v", got)
	}
}

func TestKeepLargestArea(t *testing.T) {
	m := parseCells(
		"#######",
		"#..#..#",
		"#..#.##",
		"#######",
	)
	keepLargestArea(m)

	if m.At(grid.Coord{X: 1, Y: 1}) != CellFloor {
		t.Error("Largest area should be kept")
	}
	for _, c := range []grid.Coord{{X: 4, Y: 1}, {X: 5, Y: 1}, {X: 4, Y: 2}} {
		if m.At(c) != CellWall {
			t.Errorf("Smaller area cell %v should be walled", c)
		}
	}
}

func TestKeepLargestAreaTiePrefersLast(t *testing.T) {
	m := parseCells(
		"#######",
		"#..#..#",
		"#######",
	)
	keepLargestArea(m)

	for _, c := range []grid.Coord{{X: 1, Y: 1}, {X: 2, Y: 1}} {
		if m.At(c) != CellWall {
			t.Errorf("Earlier tied area cell %v should be walled", c)
		}
	}
	for _, c := range []grid.Coord{{X: 4, Y: 1}, {X: 5, Y: 1}} {
		if m.At(c) != CellFloor {
			t.Errorf("Later tied area cell %v should be kept", c)
		}
	}
}

func TestPlaceSpawns(t *testing.T) {
	m := parseCells(
		"#######",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#.....#",
		"#######",
	)
	for seed := int64(1); seed <= 10; seed++ {
		start, goal, err := placeSpawns(m, rand.New(rand.NewSource(seed)), 10)
		if err != nil {
			t.Fatalf("Seed %d: placeSpawns failed: %v", seed, err)
		}
		if start == goal {
			t.Errorf("Seed %d: start and goal coincide at %v", seed, start)
		}
		if !isSafeSpawn(m, start) || !isSafeSpawn(m, goal) {
			t.Errorf("Seed %d: unsafe spawn start=%v goal=%v", seed, start, goal)
		}
	}

	corridor := parseCells(
		"#####",
		"#...#",
		"#####",
	)
	if _, _, err := placeSpawns(corridor, rand.New(rand.NewSource(1)), 10); err != ErrNoSpawn {
		t.Errorf("Expected ErrNoSpawn, got %v", err)
	}
}

func TestGoalOffset(t *testing.T) {
	tests := []struct {
		n, buckets, want int
	}{
		{0, 10, 0},
		{9, 10, 0},
		{10, 10, 9},
		{25, 10, 18},
		{100, 10, 90},
		{7, 1, 0},
	}
	for _, tt := range tests {
		if got := goalOffset(tt.n, tt.buckets); got != tt.want {
			t.Errorf("goalOffset(%d, %d) = %d, want %d", tt.n, tt.buckets, got, tt.want)
		}
	}
}

func TestPlaceLights(t *testing.T) {
	enclosed := parseCells(
		"#####",
		"#~~~#",
		"#~~~#",
		"#~~~#",
		"#####",
	)
	rng := &highRand{}
	if lights := placeLights(enclosed, rng, 20); len(lights) != 0 {
		t.Errorf("Enclosed pool should draw no lights, got %d", len(lights))
	}
	if rng.calls != 9 {
		t.Errorf("Every pool cell should draw once, got %d draws", rng.calls)
	}

	shore := parseCells(
		"#####",
		"#.~~#",
		"#~~~#",
		"#~~~#",
		"#####",
	)
	lights := placeLights(shore, &highRand{}, 20)
	want := []grid.Coord{{X: 2, Y: 1}, {X: 1, Y: 2}}
	if len(lights) != len(want) {
		t.Fatalf("Expected %d lights, got %d", len(want), len(lights))
	}
	for i, l := range lights {
		if l.Coord != want[i] || l.Kind != LightPool {
			t.Errorf("Light %d = %+v, want pool light at %v", i, l, want[i])
		}
	}

	edge := parseCells("~##")
	if got := placeLights(edge, &highRand{}, 20); len(got) != 1 {
		t.Errorf("Pool on the map edge should be lit, got %d lights", len(got))
	}
}

func TestPaint(t *testing.T) {
	cells := classify(parseTerrain(
		"#######",
		"#..#..#",
		"#..#..#",
		"#######",
	))
	doors := findDoors(cells)
	bridge := bridgeCandidate{coords: []grid.Coord{{X: 1, Y: 1}}}
	m := paint(cells, []bridgeCandidate{bridge}, doors, []int{0}, rand.New(rand.NewSource(1)))

	if m.At(grid.Coord{X: 1, Y: 1}) != CellBridge {
		t.Error("Bridge should be painted")
	}
	if n := m.Count(func(c Cell) bool { return c == CellDoor }); n != 1 {
		t.Errorf("Expected one door, got %d", n)
	}
}
