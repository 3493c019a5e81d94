package main

import (
	"bytes"
	"context"
	"encoding/gob"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhkhoango/Minesweeper/internal/game"
	"github.com/minhkhoango/Minesweeper/internal/solver"
)

const (
	createPlayerTable = `
CREATE TABLE IF NOT EXISTS player (
	player_id 		bigint 	GENERATED ALWAYS AS IDENTITY
							PRIMARY KEY,
	username 		text 	UNIQUE NOT NULL,
	password_hash 	bytea 	NOT NULL,
	created_at 		timestamp with time zone
							DEFAULT now()
							NOT NULL,
	updated_at 		timestamp with time zone
							DEFAULT now()
							NOT NULL
);`
	createSolverRunTable = `
CREATE TABLE IF NOT EXISTS solver_run (
	solver_run_id	bigint 	GENERATED ALWAYS AS IDENTITY
							PRIMARY KEY,
	player_id		bigint	REFERENCES player (player_id)
							NULL,
	height			integer	NOT NULL,
	width			integer	NOT NULL,
	mine_count		integer	NOT NULL,
	seed			bigint	NULL,
	outcome			text	NOT NULL,
	move_count		integer	NOT NULL,
	guess_count		integer	NOT NULL,
	transcript		bytea	NOT NULL,
	started_at		timestamp with time zone
							NOT NULL,
	finished_at		timestamp with time zone
							NOT NULL,
	created_at 		timestamp with time zone
							DEFAULT now()
							NOT NULL,
	updated_at 		timestamp with time zone
							DEFAULT now()
							NOT NULL
);`
	createUpdateModifiedColumnFunction = `
CREATE OR REPLACE FUNCTION update_modified_column()
RETURNS TRIGGER AS $$
BEGIN
	NEW.updated_at = now();
	RETURN NEW;
END;
$$ LANGUAGE 'plpgsql';`
	createPlayerUpdateTrigger = `
CREATE OR REPLACE TRIGGER update_players_modtime
BEFORE UPDATE ON player
FOR EACH ROW EXECUTE FUNCTION update_modified_column();`
	createSolverRunUpdateTrigger = `
CREATE OR REPLACE TRIGGER update_solver_run_modtime
BEFORE UPDATE ON solver_run
FOR EACH ROW EXECUTE FUNCTION update_modified_column();`
	initSql = createPlayerTable +
		createSolverRunTable +
		createUpdateModifiedColumnFunction +
		createPlayerUpdateTrigger +
		createSolverRunUpdateTrigger
)

type postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dbUrl string) (*postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(dbUrl)
	if err != nil {
		return nil, err
	}
	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(ctx, initSql); err != nil {
		return nil, err
	}
	return &postgres{db}, nil
}

func (pg *postgres) Ping(ctx context.Context) error {
	return pg.db.Ping(ctx)
}

func (pg *postgres) Close() {
	pg.db.Close()
}

type Player struct {
	PlayerId     int    `db:"player_id"`
	Username     string `db:"username"`
	PasswordHash []byte `db:"password_hash"`
}

func (pg *postgres) CreatePlayer(
	ctx context.Context, username string, passwordHash []byte,
) (*Player, error) {
	var playerId int
	if err := pg.db.QueryRow(ctx, `
		INSERT INTO player (
			username, password_hash
		)
		VALUES (
			@username, @password_hash
		)
		RETURNING player_id`,
		pgx.NamedArgs{
			"username":      username,
			"password_hash": passwordHash,
		}).Scan(&playerId); err != nil {
		return nil, err
	}
	player := &Player{
		PlayerId: playerId,
		Username: username,
	}
	return player, nil
}

func (pg *postgres) GetPlayer(
	ctx context.Context, username string,
) (*Player, error) {
	rows, err := pg.db.Query(ctx, `
		SELECT player_id, username, password_hash
		FROM player
		WHERE username = $1;`,
		username)
	if err != nil {
		return nil, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
}

// CreateRun stores a finished run. run.PlayerId may be nil for anonymous
// runs. The transcript travels as a gob blob; the columns it summarizes
// (outcome, move counts) are denormalized for querying.
func (pg *postgres) CreateRun(
	ctx context.Context, run *SolverRun,
) (*SolverRun, error) {
	var transcript bytes.Buffer
	if err := gob.NewEncoder(&transcript).Encode(run.Result); err != nil {
		return nil, err
	}
	if err := pg.db.QueryRow(ctx, `
		INSERT INTO solver_run (
			player_id, height, width, mine_count, seed,
			outcome, move_count, guess_count, transcript,
			started_at, finished_at
		)
		VALUES (
			@player_id, @height, @width, @mine_count, @seed,
			@outcome, @move_count, @guess_count, @transcript,
			@started_at, @finished_at
		)
		RETURNING solver_run_id;`,
		pgx.NamedArgs{
			"player_id":   run.PlayerId,
			"height":      run.Height,
			"width":       run.Width,
			"mine_count":  run.MineCount,
			"seed":        run.Seed,
			"outcome":     run.Result.Outcome.String(),
			"move_count":  len(run.Result.Moves),
			"guess_count": run.guessCount(),
			"transcript":  transcript.Bytes(),
			"started_at":  run.StartedAt,
			"finished_at": run.FinishedAt,
		}).Scan(&run.RunId); err != nil {
		return nil, err
	}
	return run, nil
}

func (pg *postgres) GetRun(ctx context.Context, runId int) (*SolverRun, error) {
	var (
		run        = SolverRun{RunId: runId}
		transcript []byte
	)
	if err := pg.db.QueryRow(ctx, `
		SELECT
			player_id, height, width, mine_count, seed,
			transcript, started_at, finished_at
		FROM solver_run
		WHERE solver_run_id = $1;`,
		runId,
	).Scan(
		&run.PlayerId, &run.Height, &run.Width, &run.MineCount, &run.Seed,
		&transcript, &run.StartedAt, &run.FinishedAt,
	); err != nil {
		return nil, err
	}
	if err := gob.NewDecoder(
		bytes.NewReader(transcript),
	).Decode(&run.Result); err != nil {
		return nil, err
	}
	return &run, nil
}

type RunRecord struct {
	RunId      string  `db:"run_id" json:"run_id"`
	Username   *string `db:"username" json:"username"`
	Height     int     `db:"height" json:"height"`
	Width      int     `db:"width" json:"width"`
	MineCount  int     `db:"mine_count" json:"mine_count"`
	Outcome    string  `db:"outcome" json:"outcome"`
	MoveCount  int     `db:"move_count" json:"move_count"`
	GuessCount int     `db:"guess_count" json:"guess_count"`
	Playtime   float64 `db:"playtime" json:"playtime"`
}

type RunRecordFilters struct {
	username *string
	params   *game.Params
	outcome  *solver.Outcome
}

func (f RunRecordFilters) WhereClause() (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	whereClauses := []string{}
	if f.username != nil {
		args["username"] = *f.username
		whereClauses = append(whereClauses, "username = @username")
	}
	if f.params != nil {
		args["height"] = f.params.Height
		args["width"] = f.params.Width
		args["mineCount"] = f.params.MineCount
		whereClauses = append(
			whereClauses,
			"height = @height",
			"width = @width",
			"mine_count = @mineCount",
		)
	}
	if f.outcome != nil {
		args["outcome"] = f.outcome.String()
		whereClauses = append(whereClauses, "outcome = @outcome")
	}
	if len(whereClauses) == 0 {
		return "", args
	}
	return strings.Join(whereClauses, " and "), args
}

type RunRecordsOption = func(*RunRecordFilters) error

func RunRecordsForPlayer(username string) RunRecordsOption {
	return func(f *RunRecordFilters) error {
		f.username = &username
		return nil
	}
}

func RunRecordsForParams(params *game.Params) RunRecordsOption {
	return func(f *RunRecordFilters) error {
		f.params = params
		return nil
	}
}

func RunRecordsForOutcome(outcome solver.Outcome) RunRecordsOption {
	return func(f *RunRecordFilters) error {
		f.outcome = &outcome
		return nil
	}
}

func (pg *postgres) GetRunRecords(
	ctx context.Context, options ...RunRecordsOption,
) ([]RunRecord, error) {
	filters := &RunRecordFilters{}
	for _, op := range options {
		if err := op(filters); err != nil {
			return nil, err
		}
	}

	sql := `
	select
		solver_run_id::text run_id
		, username
		, height
		, width
		, mine_count
		, outcome
		, move_count
		, guess_count
		, (
			extract('epoch' from finished_at) - extract('epoch' from started_at)
		) * 1000 playtime
	from solver_run
		left outer join player using (player_id)`

	whereClause, args := filters.WhereClause()
	if whereClause != "" {
		sql += "\n\twhere " + whereClause
	}
	sql += "\n\torder by finished_at desc limit 100;"

	rows, err := pg.db.Query(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[RunRecord])
}
